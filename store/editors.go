package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListEditors returns editors ordered by name, each with the number of games it publishes.
func (s *SQLiteStore) ListEditors(ctx context.Context) ([]*Editor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, COUNT(g.id)
		FROM editors e
		LEFT JOIN games g ON g.editor_id = e.id
		GROUP BY e.id, e.name
		ORDER BY e.name ASC, e.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list editors: %w", err)
	}
	defer rows.Close()

	var editors []*Editor
	for rows.Next() {
		editor := &Editor{}
		if err := rows.Scan(&editor.ID, &editor.Name, &editor.GameCount); err != nil {
			return nil, fmt.Errorf("failed to scan editor: %w", err)
		}
		editors = append(editors, editor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list editors: %w", err)
	}
	return editors, nil
}

// GetEditor loads a single editor without its games.
func (s *SQLiteStore) GetEditor(ctx context.Context, editorID int64) (*Editor, error) {
	editor := &Editor{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM editors WHERE id = ?",
		editorID,
	).Scan(&editor.ID, &editor.Name)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get editor: %w", err)
	}
	return editor, nil
}

func (s *SQLiteStore) CreateEditor(ctx context.Context, name string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO editors (name) VALUES (?)",
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create editor: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) UpdateEditor(ctx context.Context, editorID int64, name string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE editors SET name = ? WHERE id = ?",
		name, editorID,
	)
	if err != nil {
		return fmt.Errorf("failed to update editor: %w", err)
	}
	return expectAffected(result)
}

// DeleteEditor removes the editor's games and then the editor, all or nothing.
func (s *SQLiteStore) DeleteEditor(ctx context.Context, editorID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM games WHERE editor_id = ?", editorID); err != nil {
			return fmt.Errorf("failed to delete editor games: %w", err)
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM editors WHERE id = ?", editorID)
		if err != nil {
			return fmt.Errorf("failed to delete editor: %w", err)
		}
		return expectAffected(result)
	})
}
