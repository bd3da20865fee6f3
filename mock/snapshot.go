package mock

import (
	"context"

	"github.com/fwojciec/blogsnap"
)

var _ blogsnap.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of blogsnap.SnapshotService.
type SnapshotService struct {
	CreateSnapshotFn   func(ctx context.Context, snap *blogsnap.Snapshot, posts []*blogsnap.SnapshotPost) error
	FindSnapshotByIDFn func(ctx context.Context, id string) (*blogsnap.Snapshot, error)
	FindPostsFn        func(ctx context.Context, filter blogsnap.PostFilter) ([]*blogsnap.SnapshotPost, error)
}

func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *blogsnap.Snapshot, posts []*blogsnap.SnapshotPost) error {
	return s.CreateSnapshotFn(ctx, snap, posts)
}

func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*blogsnap.Snapshot, error) {
	return s.FindSnapshotByIDFn(ctx, id)
}

func (s *SnapshotService) FindPosts(ctx context.Context, filter blogsnap.PostFilter) ([]*blogsnap.SnapshotPost, error) {
	return s.FindPostsFn(ctx, filter)
}
