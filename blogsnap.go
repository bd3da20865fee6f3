// Package blogsnap produces an offline, readable snapshot of a blog.
// It discovers post links on archive pages, culls them down to real posts,
// extracts each post's title, text and images, and assembles the result
// into a single paginated document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, docx/).
package blogsnap
