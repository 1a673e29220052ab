package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const selectGames = `
	SELECT g.id, g.title, g.description, g.release_date, g.genre_id, g.editor_id, gr.name, e.name
	FROM games g
	JOIN genres gr ON gr.id = g.genre_id
	JOIN editors e ON e.id = g.editor_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*Game, error) {
	game := &Game{Genre: &Genre{}, Editor: &Editor{}}
	var releaseDate string
	if err := row.Scan(
		&game.ID, &game.Title, &game.Description, &releaseDate,
		&game.GenreID, &game.EditorID, &game.Genre.Name, &game.Editor.Name,
	); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(DateLayout, releaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid release date %q for game %d: %w", releaseDate, game.ID, err)
	}
	game.ReleaseDate = parsed
	game.Genre.ID = game.GenreID
	game.Editor.ID = game.EditorID
	return game, nil
}

func (s *SQLiteStore) queryGames(ctx context.Context, query string, args ...any) ([]*Game, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// ListGames returns every game with its genre and editor, ordered by title.
func (s *SQLiteStore) ListGames(ctx context.Context) ([]*Game, error) {
	games, err := s.queryGames(ctx, selectGames+" ORDER BY g.title ASC, g.id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (s *SQLiteStore) ListGamesByEditor(ctx context.Context, editorID int64) ([]*Game, error) {
	games, err := s.queryGames(ctx, selectGames+" WHERE g.editor_id = ? ORDER BY g.title ASC, g.id ASC", editorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list editor games: %w", err)
	}
	return games, nil
}

func (s *SQLiteStore) GetGame(ctx context.Context, gameID int64) (*Game, error) {
	game, err := scanGame(s.db.QueryRowContext(ctx, selectGames+" WHERE g.id = ?", gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

func (s *SQLiteStore) CreateGame(ctx context.Context, params GameParams) (int64, error) {
	var gameID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, params); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO games (title, description, release_date, genre_id, editor_id)
			VALUES (?, ?, ?, ?, ?)
		`, params.Title, params.Description, params.ReleaseDate.Format(DateLayout), params.GenreID, params.EditorID)
		if err != nil {
			return fmt.Errorf("failed to create game: %w", err)
		}

		gameID, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return gameID, nil
}

func (s *SQLiteStore) UpdateGame(ctx context.Context, gameID int64, params GameParams) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, params); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE games
			SET title = ?, description = ?, release_date = ?, genre_id = ?, editor_id = ?
			WHERE id = ?
		`, params.Title, params.Description, params.ReleaseDate.Format(DateLayout), params.GenreID, params.EditorID, gameID)
		if err != nil {
			return fmt.Errorf("failed to update game: %w", err)
		}
		return expectAffected(result)
	})
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, gameID int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", gameID)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return expectAffected(result)
}

func checkReferences(ctx context.Context, q querier, params GameParams) error {
	ok, err := exists(ctx, q, "SELECT EXISTS(SELECT 1 FROM genres WHERE id = ?)", params.GenreID)
	if err != nil {
		return fmt.Errorf("failed to check genre: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: genre %d does not exist", ErrInvalidReference, params.GenreID)
	}

	ok, err = exists(ctx, q, "SELECT EXISTS(SELECT 1 FROM editors WHERE id = ?)", params.EditorID)
	if err != nil {
		return fmt.Errorf("failed to check editor: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: editor %d does not exist", ErrInvalidReference, params.EditorID)
	}
	return nil
}
