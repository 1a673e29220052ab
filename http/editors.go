package http

import (
	"fmt"
	"net/http"

	"vapeur/catalog"
)

func (h *Handlers) ListEditors(w http.ResponseWriter, r *http.Request) {
	editors, err := h.catalog.Editors(r.Context())
	if err != nil {
		h.serverError(w, r, err, "Failed to list editors")
		return
	}
	h.render(w, r, "editors", map[string]any{"Editors": editors})
}

func (h *Handlers) NewEditorForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "editorCreate", nil)
}

func (h *Handlers) CreateEditor(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to create editor"

	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err, failure)
		return
	}
	name, err := catalog.ParseEditorForm(r.PostForm)
	if err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	if _, err := h.catalog.CreateEditor(r.Context(), name); err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	http.Redirect(w, r, "/editors", http.StatusFound)
}

func (h *Handlers) GetEditor(w http.ResponseWriter, r *http.Request) {
	editorID, err := pathID(r)
	if err != nil {
		http.Error(w, "Editor not found", http.StatusNotFound)
		return
	}

	editor, err := h.catalog.EditorWithGames(r.Context(), editorID)
	if err != nil {
		h.lookupError(w, r, err, "Editor not found")
		return
	}
	h.render(w, r, "editorDetail", map[string]any{"Editor": editor})
}

func (h *Handlers) EditEditorForm(w http.ResponseWriter, r *http.Request) {
	editorID, err := pathID(r)
	if err != nil {
		http.Error(w, "Editor not found", http.StatusNotFound)
		return
	}

	editor, err := h.catalog.Editor(r.Context(), editorID)
	if err != nil {
		h.lookupError(w, r, err, "Editor not found")
		return
	}
	h.render(w, r, "editorEdit", map[string]any{"Editor": editor})
}

func (h *Handlers) UpdateEditor(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to update editor"

	editorID, err := pathID(r)
	if err != nil {
		h.serverError(w, r, err, failure)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.serverError(w, r, err, failure)
		return
	}
	name, err := catalog.ParseEditorForm(r.PostForm)
	if err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	if err := h.catalog.UpdateEditor(r.Context(), editorID, name); err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/editors/%d", editorID), http.StatusFound)
}

func (h *Handlers) DeleteEditor(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to delete editor"

	editorID, err := pathID(r)
	if err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	if err := h.catalog.DeleteEditor(r.Context(), editorID); err != nil {
		h.serverError(w, r, err, failure)
		return
	}

	http.Redirect(w, r, "/editors", http.StatusFound)
}
