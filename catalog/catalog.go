// Package catalog holds the game, genre and editor operations behind the HTTP handlers.
package catalog

import (
	"context"

	"github.com/sirupsen/logrus"

	"vapeur/store"
)

type Catalog struct {
	store store.Store
	log   logrus.FieldLogger
}

func New(store store.Store, log logrus.FieldLogger) *Catalog {
	return &Catalog{store: store, log: log}
}

// FormOptions populates the genre and editor selects of the game forms.
type FormOptions struct {
	Genres  []*store.Genre
	Editors []*store.Editor
}

// SeedGenres makes sure the default genres exist.
func (c *Catalog) SeedGenres(ctx context.Context) error {
	if err := store.Seed(ctx, c.store); err != nil {
		return err
	}
	c.log.WithField("genres", len(store.DefaultGenres)).Info("default genres ensured")
	return nil
}

func (c *Catalog) Games(ctx context.Context) ([]*store.Game, error) {
	return c.store.ListGames(ctx)
}

func (c *Catalog) Game(ctx context.Context, gameID int64) (*store.Game, error) {
	return c.store.GetGame(ctx, gameID)
}

func (c *Catalog) GameFormOptions(ctx context.Context) (*FormOptions, error) {
	genres, err := c.store.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	editors, err := c.store.ListEditors(ctx)
	if err != nil {
		return nil, err
	}
	return &FormOptions{Genres: genres, Editors: editors}, nil
}

func (c *Catalog) CreateGame(ctx context.Context, params store.GameParams) (int64, error) {
	gameID, err := c.store.CreateGame(ctx, params)
	if err != nil {
		return 0, err
	}
	c.log.WithFields(logrus.Fields{"game_id": gameID, "title": params.Title}).Info("game created")
	return gameID, nil
}

func (c *Catalog) UpdateGame(ctx context.Context, gameID int64, params store.GameParams) error {
	if err := c.store.UpdateGame(ctx, gameID, params); err != nil {
		return err
	}
	c.log.WithField("game_id", gameID).Info("game updated")
	return nil
}

func (c *Catalog) DeleteGame(ctx context.Context, gameID int64) error {
	if err := c.store.DeleteGame(ctx, gameID); err != nil {
		return err
	}
	c.log.WithField("game_id", gameID).Info("game deleted")
	return nil
}

func (c *Catalog) Genres(ctx context.Context) ([]*store.Genre, error) {
	return c.store.ListGenres(ctx)
}

func (c *Catalog) Editors(ctx context.Context) ([]*store.Editor, error) {
	return c.store.ListEditors(ctx)
}

// Editor loads an editor without its games.
func (c *Catalog) Editor(ctx context.Context, editorID int64) (*store.Editor, error) {
	return c.store.GetEditor(ctx, editorID)
}

// EditorWithGames loads an editor and attaches the games it publishes.
func (c *Catalog) EditorWithGames(ctx context.Context, editorID int64) (*store.Editor, error) {
	editor, err := c.store.GetEditor(ctx, editorID)
	if err != nil {
		return nil, err
	}

	games, err := c.store.ListGamesByEditor(ctx, editorID)
	if err != nil {
		return nil, err
	}
	editor.Games = games
	editor.GameCount = len(games)
	return editor, nil
}

func (c *Catalog) CreateEditor(ctx context.Context, name string) (int64, error) {
	editorID, err := c.store.CreateEditor(ctx, name)
	if err != nil {
		return 0, err
	}
	c.log.WithFields(logrus.Fields{"editor_id": editorID, "name": name}).Info("editor created")
	return editorID, nil
}

func (c *Catalog) UpdateEditor(ctx context.Context, editorID int64, name string) error {
	if err := c.store.UpdateEditor(ctx, editorID, name); err != nil {
		return err
	}
	c.log.WithField("editor_id", editorID).Info("editor updated")
	return nil
}

// DeleteEditor removes the editor together with all of its games.
func (c *Catalog) DeleteEditor(ctx context.Context, editorID int64) error {
	if err := c.store.DeleteEditor(ctx, editorID); err != nil {
		return err
	}
	c.log.WithField("editor_id", editorID).Info("editor and its games deleted")
	return nil
}
