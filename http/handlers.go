package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"vapeur/catalog"
	"vapeur/store"
)

type Handlers struct {
	catalog  *catalog.Catalog
	renderer *Renderer
	log      logrus.FieldLogger
}

func NewHandlers(catalog *catalog.Catalog, renderer *Renderer, log logrus.FieldLogger) *Handlers {
	return &Handlers{
		catalog:  catalog,
		renderer: renderer,
		log:      log,
	}
}

// pathID reads the numeric {id} route variable. Routes only match digits,
// so a parse failure means the value overflowed int64.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, view string, data map[string]any) {
	if err := h.renderer.Render(w, r, view, data); err != nil {
		h.serverError(w, r, err, "Server error")
	}
}

// serverError logs err and answers 500 with a plain-text message.
func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error, message string) {
	h.log.WithFields(logrus.Fields{
		"request_id": GetRequestIDFromContext(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	}).WithError(err).Error(message)
	http.Error(w, message, http.StatusInternalServerError)
}

// lookupError answers 404 for missing rows and 500 for everything else.
func (h *Handlers) lookupError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, notFound, http.StatusNotFound)
		return
	}
	h.serverError(w, r, err, "Server error")
}
