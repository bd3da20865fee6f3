package mock

import (
	"context"
	"io"

	"github.com/fwojciec/blogsnap"
)

// Compile-time interface verification.
var (
	_ blogsnap.Assembler   = (*Assembler)(nil)
	_ blogsnap.OutputStore = (*OutputStore)(nil)
)

// Assembler is a mock implementation of blogsnap.Assembler.
type Assembler struct {
	AddPostFn func(ctx context.Context, post *blogsnap.Post) (*blogsnap.PostStats, error)
	CloseFn   func() error
}

func (a *Assembler) AddPost(ctx context.Context, post *blogsnap.Post) (*blogsnap.PostStats, error) {
	return a.AddPostFn(ctx, post)
}

func (a *Assembler) Close() error {
	return a.CloseFn()
}

// OutputStore is a mock implementation of blogsnap.OutputStore.
type OutputStore struct {
	CreateFn func(name string) (io.WriteCloser, error)
	CommitFn func() error
	AbortFn  func() error
}

func (s *OutputStore) Create(name string) (io.WriteCloser, error) {
	return s.CreateFn(name)
}

func (s *OutputStore) Commit() error {
	return s.CommitFn()
}

func (s *OutputStore) Abort() error {
	return s.AbortFn()
}
