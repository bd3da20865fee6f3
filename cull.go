package blogsnap

import "strings"

// CullRule configures which links survive Cull.
type CullRule struct {
	// Exclude drops any link containing one of these substrings.
	Exclude []string `yaml:"exclude"`

	// Require, when non-empty, drops any link that does not contain
	// every one of these substrings.
	Require []string `yaml:"require"`

	// RemoveNull drops null links.
	RemoveNull bool `yaml:"remove_null"`

	// RemoveYearIndex drops bare year archive links such as
	// https://example.com/2020/.
	RemoveYearIndex bool `yaml:"remove_year_index"`
}

// DefaultCullRule returns the rule used when none is configured.
// It excludes open threads, reader surveys and link roundups.
func DefaultCullRule() CullRule {
	return CullRule{
		Exclude: []string{
			"open-thread",
			"openthread",
			"survey",
			"/links-for-",
		},
		RemoveNull:      true,
		RemoveYearIndex: true,
	}
}

// CullReason explains why a link was removed.
type CullReason string

// Cull reasons, one per pass.
const (
	ReasonNull            CullReason = "null"
	ReasonYearIndex       CullReason = "year-index"
	ReasonExcluded        CullReason = "excluded"
	ReasonMissingRequired CullReason = "missing-required"
)

// Removal records a link dropped by Cull.
type Removal struct {
	Link    Link
	Reason  CullReason
	Pattern string // empty for ReasonNull and ReasonYearIndex
}

// CullResult holds the surviving links and what was removed.
type CullResult struct {
	Links   []Link
	Removed []Removal
}

// Cull filters links down to post links according to rule.
//
// Passes run in a fixed order: null links, year index links, each
// exclusion pattern in turn, then required patterns. Each pass is a
// stable filter, so surviving links keep their relative order. The input
// slice is never modified.
func Cull(links []Link, rule CullRule) *CullResult {
	result := &CullResult{
		Links: append([]Link(nil), links...),
	}

	if rule.RemoveNull {
		result.filter(func(l Link) (CullReason, string, bool) {
			return ReasonNull, "", l.Valid
		})
	}

	if rule.RemoveYearIndex {
		result.filter(func(l Link) (CullReason, string, bool) {
			return ReasonYearIndex, "", !l.Valid || !IsYearIndex(l.URL)
		})
	}

	for _, pattern := range rule.Exclude {
		if pattern == "" {
			continue
		}
		result.filter(func(l Link) (CullReason, string, bool) {
			return ReasonExcluded, pattern, !l.Valid || !strings.Contains(l.URL, pattern)
		})
	}

	if len(rule.Require) > 0 {
		result.filter(func(l Link) (CullReason, string, bool) {
			for _, pattern := range rule.Require {
				if !l.Valid || !strings.Contains(l.URL, pattern) {
					return ReasonMissingRequired, pattern, false
				}
			}
			return "", "", true
		})
	}

	return result
}

// filter keeps the links for which keep reports true, using a write
// cursor so that no element is skipped after a removal.
func (r *CullResult) filter(keep func(Link) (CullReason, string, bool)) {
	n := 0
	for _, link := range r.Links {
		reason, pattern, ok := keep(link)
		if ok {
			r.Links[n] = link
			n++
			continue
		}
		r.Removed = append(r.Removed, Removal{Link: link, Reason: reason, Pattern: pattern})
	}
	clear(r.Links[n:])
	r.Links = r.Links[:n]
}

// IsYearIndex reports whether href points at a bare year archive page.
// Such hrefs split on "/" into exactly 4 or 5 parts:
//
//	https://example.com/2020  -> [https:  example.com 2020]
//	https://example.com/2020/ -> [https:  example.com 2020 ""]
//
// Post URLs carry further month, day and slug segments.
func IsYearIndex(href string) bool {
	n := strings.Count(href, "/") + 1
	return n == 4 || n == 5
}
