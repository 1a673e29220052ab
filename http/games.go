package http

import (
	"fmt"
	"net/http"

	"vapeur/catalog"
)

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.Games(r.Context())
	if err != nil {
		h.serverError(w, r, err, "Server error")
		return
	}
	h.render(w, r, "index", map[string]any{"Games": games})
}

func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.Games(r.Context())
	if err != nil {
		h.serverError(w, r, err, "Failed to list games")
		return
	}
	h.render(w, r, "games", map[string]any{"Games": games})
}

func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r)
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	game, err := h.catalog.Game(r.Context(), gameID)
	if err != nil {
		h.lookupError(w, r, err, "Game not found")
		return
	}
	h.render(w, r, "gameDetail", map[string]any{"Game": game})
}

func (h *Handlers) NewGameForm(w http.ResponseWriter, r *http.Request) {
	opts, err := h.catalog.GameFormOptions(r.Context())
	if err != nil {
		h.serverError(w, r, err, "Server error")
		return
	}
	h.render(w, r, "gameCreate", map[string]any{
		"Genres":  opts.Genres,
		"Editors": opts.Editors,
	})
}

func (h *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to create game"

	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err, failure)
		return
	}
	params, err := catalog.ParseGameForm(r.PostForm)
	if err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	gameID, err := h.catalog.CreateGame(r.Context(), params)
	if err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/games/%d", gameID), http.StatusFound)
}

func (h *Handlers) EditGameForm(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r)
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	game, err := h.catalog.Game(r.Context(), gameID)
	if err != nil {
		h.lookupError(w, r, err, "Game not found")
		return
	}

	opts, err := h.catalog.GameFormOptions(r.Context())
	if err != nil {
		h.serverError(w, r, err, "Server error")
		return
	}

	h.render(w, r, "gameEdit", map[string]any{
		"Game":    game,
		"Genres":  opts.Genres,
		"Editors": opts.Editors,
	})
}

func (h *Handlers) UpdateGame(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to update game"

	gameID, err := pathID(r)
	if err != nil {
		h.serverError(w, r, err, failure)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err, failure)
		return
	}
	params, err := catalog.ParseGameForm(r.PostForm)
	if err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	if err := h.catalog.UpdateGame(r.Context(), gameID, params); err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/games/%d", gameID), http.StatusFound)
}

func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to delete game"

	gameID, err := pathID(r)
	if err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	if err := h.catalog.DeleteGame(r.Context(), gameID); err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	http.Redirect(w, r, "/games", http.StatusFound)
}
