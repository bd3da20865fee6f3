package blogsnap

import (
	"context"
	"time"
)

// Snapshot records one completed run.
type Snapshot struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	OutputPath string    `json:"outputPath"`
	PostCount  int       `json:"postCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SnapshotPost records one post included in a snapshot.
type SnapshotPost struct {
	ID          string    `json:"id"`
	SnapshotID  string    `json:"snapshotId"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Position    int       `json:"position"`
	Paragraphs  int       `json:"paragraphs"`
	Images      int       `json:"images"`
	Absent      int       `json:"absent"`
	ContentHash string    `json:"contentHash"`
	Content     string    `json:"-"` // hashed on create, never stored
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the post contains invalid fields.
func (p *SnapshotPost) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "snapshot post URL required")
	}
	return nil
}

// SnapshotService records completed runs and the posts they contained.
type SnapshotService interface {
	// CreateSnapshot stores the snapshot and its posts atomically.
	// IDs and timestamps are assigned by the service.
	CreateSnapshot(ctx context.Context, snap *Snapshot, posts []*SnapshotPost) error

	// FindSnapshotByID retrieves a snapshot by ID.
	// Returns ENOTFOUND if the snapshot does not exist.
	FindSnapshotByID(ctx context.Context, id string) (*Snapshot, error)

	// FindPosts retrieves recorded posts matching the filter.
	FindPosts(ctx context.Context, filter PostFilter) ([]*SnapshotPost, error)
}

// PostFilter represents a filter for FindPosts.
type PostFilter struct {
	SnapshotID *string `json:"snapshotId"`
	URL        *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
