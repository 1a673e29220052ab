package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a lookup, update or delete targets a row that does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalidReference is returned when a game points at a genre or editor that does not exist.
	ErrInvalidReference = errors.New("store: invalid reference")
)

// DateLayout is the storage format of games.release_date.
const DateLayout = "2006-01-02"

type Store interface {
	EnsureGenres(ctx context.Context, names []string) error
	ListGenres(ctx context.Context) ([]*Genre, error)

	ListEditors(ctx context.Context) ([]*Editor, error)
	GetEditor(ctx context.Context, editorID int64) (*Editor, error)
	CreateEditor(ctx context.Context, name string) (int64, error)
	UpdateEditor(ctx context.Context, editorID int64, name string) error
	DeleteEditor(ctx context.Context, editorID int64) error

	ListGames(ctx context.Context) ([]*Game, error)
	ListGamesByEditor(ctx context.Context, editorID int64) ([]*Game, error)
	GetGame(ctx context.Context, gameID int64) (*Game, error)
	CreateGame(ctx context.Context, params GameParams) (int64, error)
	UpdateGame(ctx context.Context, gameID int64, params GameParams) error
	DeleteGame(ctx context.Context, gameID int64) error

	Close() error
}

type Genre struct {
	ID   int64
	Name string
}

type Editor struct {
	ID        int64
	Name      string
	GameCount int
	Games     []*Game
}

type Game struct {
	ID          int64
	Title       string
	Description string
	ReleaseDate time.Time
	GenreID     int64
	EditorID    int64
	Genre       *Genre
	Editor      *Editor
}

// GameParams carries the writable columns of a game.
type GameParams struct {
	Title       string
	Description string
	ReleaseDate time.Time
	GenreID     int64
	EditorID    int64
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// New wraps an already opened and migrated database.
func New(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// dsn turns foreign key enforcement on for every pooled connection.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func exists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var found bool
	if err := q.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

func expectAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
