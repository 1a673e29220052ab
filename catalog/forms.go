package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vapeur/store"
)

// ErrInvalidInput wraps every form validation failure.
var ErrInvalidInput = errors.New("invalid input")

// ParseGameForm reads the game form fields: title, description, releaseDate, genreId and editorId.
func ParseGameForm(form url.Values) (store.GameParams, error) {
	params := store.GameParams{
		Title:       cleanText(form.Get("title")),
		Description: cleanText(form.Get("description")),
	}

	if params.Title == "" {
		return params, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	releaseDate, err := time.Parse(store.DateLayout, strings.TrimSpace(form.Get("releaseDate")))
	if err != nil {
		return params, fmt.Errorf("%w: releaseDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	params.ReleaseDate = releaseDate

	if params.GenreID, err = parseID(form.Get("genreId")); err != nil {
		return params, fmt.Errorf("%w: genreId: %v", ErrInvalidInput, err)
	}
	if params.EditorID, err = parseID(form.Get("editorId")); err != nil {
		return params, fmt.Errorf("%w: editorId: %v", ErrInvalidInput, err)
	}

	return params, nil
}

// ParseEditorForm reads the editor name.
func ParseEditorForm(form url.Values) (string, error) {
	name := cleanText(form.Get("name"))
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return name, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.New("not an integer")
	}
	return id, nil
}
