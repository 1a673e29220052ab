package http

import "net/http"

func (h *Handlers) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.Genres(r.Context())
	if err != nil {
		h.serverError(w, r, err, "Failed to list genres")
		return
	}
	h.render(w, r, "genres", map[string]any{"Genres": genres})
}
