package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lumeview/backend/internal/db"
	"github.com/lumeview/backend/internal/media"
)

const recordColumns = `id, bucket_id, display_name, locator, favorite, trashed,
        media_type, mime_type, date_added, date_modified, width, height, orientation`

// Store provides PostgreSQL-backed access to the media catalog.
type Store struct {
	pool db.Pool
}

// NewStore constructs a catalog store backed by PostgreSQL.
func NewStore(pool db.Pool) *Store {
	return &Store{pool: pool}
}

// LookupByLocator fetches the record matching the locator. The lookup must be
// unambiguous: zero rows yields ErrNotFound, more than one yields ErrAmbiguous.
func (s *Store) LookupByLocator(ctx context.Context, locator string) (media.Record, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return media.Record{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+recordColumns+`
        FROM media_items
        WHERE locator = $1
        LIMIT 2
    `, locator)
	if err != nil {
		return media.Record{}, fmt.Errorf("query media item by locator: %w", err)
	}
	defer rows.Close()

	var matches []media.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return media.Record{}, fmt.Errorf("scan media item: %w", err)
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return media.Record{}, fmt.Errorf("iterate media items: %w", err)
	}

	switch len(matches) {
	case 0:
		return media.Record{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return media.Record{}, ErrAmbiguous
	}
}

// FindByID fetches a single record by catalog id.
func (s *Store) FindByID(ctx context.Context, id int64) (media.Record, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return media.Record{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+recordColumns+`
        FROM media_items
        WHERE id = $1
    `, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return media.Record{}, ErrNotFound
		}
		return media.Record{}, fmt.Errorf("select media item by id: %w", err)
	}
	return rec, nil
}

// ListAlbum returns the non-trashed records of an album ordered for
// navigation: dateAdded descending, id as the tiebreaker.
func (s *Store) ListAlbum(ctx context.Context, albumID int64) ([]media.Record, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+recordColumns+`
        FROM media_items
        WHERE bucket_id = $1 AND NOT trashed
        ORDER BY date_added DESC, id ASC
    `, albumID)
	if err != nil {
		return nil, fmt.Errorf("query album items: %w", err)
	}
	defer rows.Close()

	var records []media.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan album item: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate album items: %w", err)
	}

	return records, nil
}

// ProbeType returns the stored mime type for a locator, when the catalog knows it.
func (s *Store) ProbeType(ctx context.Context, locator string) (string, error) {
	rec, err := s.LookupByLocator(ctx, locator)
	if err != nil {
		return "", err
	}
	return rec.MimeType, nil
}

// Insert persists a new catalog record.
func (s *Store) Insert(ctx context.Context, rec media.Record) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO media_items (`+recordColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `, rec.ID, rec.BucketID, rec.DisplayName, rec.Locator, rec.Favorite, rec.Trashed,
		string(rec.Type), rec.MimeType, rec.DateAdded, rec.DateModified,
		rec.Width, rec.Height, rec.Orientation)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert media item: %w", err)
	}

	return nil
}

// SetFavorite flips the favorite flag on a record.
func (s *Store) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	return s.updateFlag(ctx, `UPDATE media_items SET favorite = $2, date_modified = NOW() WHERE id = $1`, id, favorite)
}

// SetTrashed moves a record in or out of the trash. Restores within the
// catalog's retention window succeed as long as the row still exists.
func (s *Store) SetTrashed(ctx context.Context, id int64, trashed bool) error {
	return s.updateFlag(ctx, `UPDATE media_items SET trashed = $2, date_modified = NOW() WHERE id = $1`, id, trashed)
}

// Delete permanently removes a record.
func (s *Store) Delete(ctx context.Context, id int64) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM media_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Store) updateFlag(ctx context.Context, query string, id int64, value bool) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("update media item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (media.Record, error) {
	var (
		rec       media.Record
		mediaType string
	)
	if err := row.Scan(
		&rec.ID, &rec.BucketID, &rec.DisplayName, &rec.Locator, &rec.Favorite, &rec.Trashed,
		&mediaType, &rec.MimeType, &rec.DateAdded, &rec.DateModified,
		&rec.Width, &rec.Height, &rec.Orientation,
	); err != nil {
		return media.Record{}, err
	}
	rec.Type = media.Type(mediaType)
	rec.DateAdded = rec.DateAdded.UTC()
	rec.DateModified = rec.DateModified.UTC()
	return rec, nil
}
