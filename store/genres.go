package store

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureGenres creates every missing genre by name and leaves existing rows untouched.
func (s *SQLiteStore) EnsureGenres(ctx context.Context, names []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, name := range names {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO genres (name) VALUES (?) ON CONFLICT(name) DO NOTHING",
				name,
			); err != nil {
				return fmt.Errorf("failed to ensure genre %q: %w", name, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) ListGenres(ctx context.Context) ([]*Genre, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM genres ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	defer rows.Close()

	var genres []*Genre
	for rows.Next() {
		genre := &Genre{}
		if err := rows.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}
