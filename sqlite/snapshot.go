package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/blogsnap"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ blogsnap.SnapshotService = (*SnapshotService)(nil)

// SnapshotService implements blogsnap.SnapshotService using SQLite.
type SnapshotService struct {
	db *DB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// CreateSnapshot stores snap and its posts in a single transaction.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *blogsnap.Snapshot, posts []*blogsnap.SnapshotPost) error {
	for _, p := range posts {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	snap.ID = uuid.New().String()
	snap.CreatedAt = now
	snap.PostCount = len(posts)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, title, output_path, post_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID, snap.Title, snap.OutputPath, snap.PostCount, snap.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}

	for _, p := range posts {
		p.ID = uuid.New().String()
		p.SnapshotID = snap.ID
		p.ContentHash = hashContent(p.Content)
		if p.FetchedAt.IsZero() {
			p.FetchedAt = now
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshot_posts (id, snapshot_id, url, title, position, paragraphs, images, absent, content_hash, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.SnapshotID, p.URL, p.Title, p.Position, p.Paragraphs, p.Images, p.Absent,
			p.ContentHash, p.FetchedAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindSnapshotByID retrieves a snapshot by ID.
func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*blogsnap.Snapshot, error) {
	var snap blogsnap.Snapshot
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, output_path, post_count, created_at
		FROM snapshots
		WHERE id = ?
	`, id).Scan(&snap.ID, &snap.Title, &snap.OutputPath, &snap.PostCount, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, blogsnap.Errorf(blogsnap.ENOTFOUND, "snapshot not found")
	}
	if err != nil {
		return nil, err
	}

	if snap.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &snap, nil
}

// FindPosts retrieves recorded posts matching the filter, ordered by
// snapshot and position.
func (s *SnapshotService) FindPosts(ctx context.Context, filter blogsnap.PostFilter) ([]*blogsnap.SnapshotPost, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, snapshot_id, url, title, position, paragraphs, images, absent, content_hash, fetched_at FROM snapshot_posts WHERE 1=1")

	if filter.SnapshotID != nil {
		query.WriteString(" AND snapshot_id = ?")
		args = append(args, *filter.SnapshotID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY fetched_at ASC, snapshot_id ASC, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*blogsnap.SnapshotPost
	for rows.Next() {
		var p blogsnap.SnapshotPost
		var fetchedAt string

		if err := rows.Scan(&p.ID, &p.SnapshotID, &p.URL, &p.Title, &p.Position,
			&p.Paragraphs, &p.Images, &p.Absent, &p.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}

		if p.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}

		posts = append(posts, &p)
	}

	return posts, rows.Err()
}
