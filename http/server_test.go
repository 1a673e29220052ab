package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vapeur/catalog"
	"vapeur/store"
	"vapeur/web"
)

type testEnv struct {
	server *Server
	store  *store.SQLiteStore
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger, _ := test.NewNullLogger()
	cat := catalog.New(s, logger)
	require.NoError(t, cat.SeedGenres(context.Background()))

	renderer, err := NewRenderer(web.Templates)
	require.NoError(t, err)

	return &testEnv{server: NewServer(cat, renderer, logger, opts), store: s}
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) genreID(t *testing.T, name string) int64 {
	t.Helper()
	genres, err := e.store.ListGenres(context.Background())
	require.NoError(t, err)
	for _, g := range genres {
		if g.Name == name {
			return g.ID
		}
	}
	t.Fatalf("genre %q not seeded", name)
	return 0
}

func gameForm(title string, genreID, editorID int64) url.Values {
	return url.Values{
		"title":       {title},
		"description": {"d"},
		"releaseDate": {"2020-01-01"},
		"genreId":     {formatID(genreID)},
		"editorId":    {formatID(editorID)},
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestEditorDeleteScenario(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.post(t, "/editors/create", url.Values{"name": {"Nintendo"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/editors", rec.Header().Get("Location"))

	rec = env.post(t, "/games/create", gameForm("Game A", env.genreID(t, "Action"), 1))
	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.Equal(t, "/games/1", location)

	rec = env.get(t, location)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Game A")
	assert.Contains(t, rec.Body.String(), "Nintendo")

	rec = env.post(t, "/editors/1/delete", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/editors", rec.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, env.get(t, location).Code)
	assert.Equal(t, http.StatusNotFound, env.get(t, "/editors/1").Code)
}

func TestCreateGameWithUnknownReferences(t *testing.T) {
	env := newTestEnv(t, Options{})
	require.Equal(t, http.StatusFound, env.post(t, "/editors/create", url.Values{"name": {"Sega"}}).Code)

	rec := env.post(t, "/games/create", gameForm("Ghost", 999, 1))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to create game")

	rec = env.post(t, "/games/create", gameForm("Ghost", env.genreID(t, "RPG"), 999))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = env.post(t, "/games/create", url.Values{"title": {"Ghost"}, "genreId": {"x"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	games, err := env.store.ListGames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestUnknownIDsReturnNotFound(t *testing.T) {
	env := newTestEnv(t, Options{})

	for _, path := range []string{
		"/games/42",
		"/games/42/edit",
		"/editors/42",
		"/editors/42/edit",
		"/games/abc",
		"/editors/99999999999999999999",
	} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, env.get(t, path).Code)
		})
	}
}

func TestWritesToUnknownIDsFail(t *testing.T) {
	env := newTestEnv(t, Options{})
	require.Equal(t, http.StatusFound, env.post(t, "/editors/create", url.Values{"name": {"Sega"}}).Code)

	assert.Equal(t, http.StatusInternalServerError, env.post(t, "/games/42/edit", gameForm("X", env.genreID(t, "RPG"), 1)).Code)
	assert.Equal(t, http.StatusInternalServerError, env.post(t, "/games/42/delete", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, env.post(t, "/editors/42/edit", url.Values{"name": {"X"}}).Code)

	rec := env.post(t, "/editors/42/delete", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to delete editor")
}

func TestUpdateGameThenRead(t *testing.T) {
	env := newTestEnv(t, Options{})
	require.Equal(t, http.StatusFound, env.post(t, "/editors/create", url.Values{"name": {"Capcom"}}).Code)
	require.Equal(t, http.StatusFound, env.post(t, "/games/create", gameForm("Street Fighter", env.genreID(t, "Action"), 1)).Code)

	rec := env.get(t, "/games/1/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Street Fighter"`)
	assert.Contains(t, rec.Body.String(), `value="2020-01-01"`)
	assert.Contains(t, rec.Body.String(), " selected>Action</option>")

	form := gameForm("Street Fighter II", env.genreID(t, "Sport"), 1)
	rec = env.post(t, "/games/1/edit", form)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/games/1", rec.Header().Get("Location"))

	rec = env.get(t, "/games/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Street Fighter II")
	assert.Contains(t, rec.Body.String(), "Sport")
}

func TestSpecialCharactersRoundTrip(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	const editorName = `Rock'n'Roll & "Sons" < Co`
	const title = `Tom & Jerry: "Cat's" < Mouse`
	const description = `Chase & run, 1 < 2 > 0`

	require.Equal(t, http.StatusFound, env.post(t, "/editors/create", url.Values{"name": {editorName}}).Code)

	form := gameForm(title, env.genreID(t, "Action"), 1)
	form.Set("description", description)
	require.Equal(t, http.StatusFound, env.post(t, "/games/create", form).Code)

	game, err := env.store.GetGame(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, title, game.Title)
	assert.Equal(t, description, game.Description)
	assert.Equal(t, editorName, game.Editor.Name)

	// Saving the values again unchanged must not alter them.
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusFound, env.post(t, "/games/1/edit", form).Code)
		require.Equal(t, http.StatusFound, env.post(t, "/editors/1/edit", url.Values{"name": {editorName}}).Code)
	}

	game, err = env.store.GetGame(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, title, game.Title)
	assert.Equal(t, description, game.Description)
	assert.Equal(t, editorName, game.Editor.Name)

	rec := env.get(t, "/games/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tom &amp; Jerry")
	assert.NotContains(t, rec.Body.String(), "&amp;amp;")
}

func TestDeleteGame(t *testing.T) {
	env := newTestEnv(t, Options{})
	require.Equal(t, http.StatusFound, env.post(t, "/editors/create", url.Values{"name": {"Atari"}}).Code)
	require.Equal(t, http.StatusFound, env.post(t, "/games/create", gameForm("Pong", env.genreID(t, "Sport"), 1)).Code)

	rec := env.post(t, "/games/1/delete", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/games", rec.Header().Get("Location"))
	assert.Equal(t, http.StatusNotFound, env.get(t, "/games/1").Code)
}

func TestListingsAreSorted(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, name := range []string{"Ubisoft", "Activision", "Nintendo"} {
		require.Equal(t, http.StatusFound, env.post(t, "/editors/create", url.Values{"name": {name}}).Code)
	}
	action := env.genreID(t, "Action")
	for _, title := range []string{"Zelda", "Asteroids", "Metroid"} {
		require.Equal(t, http.StatusFound, env.post(t, "/games/create", gameForm(title, action, 1)).Code)
	}

	for _, path := range []string{"/", "/games"} {
		body := env.get(t, path).Body.String()
		assertOrdered(t, body, "Asteroids", "Metroid", "Zelda")
	}

	rec := env.get(t, "/editors")
	require.Equal(t, http.StatusOK, rec.Code)
	assertOrdered(t, rec.Body.String(), "Activision", "Nintendo", "Ubisoft")
	assert.Contains(t, rec.Body.String(), "3 game(s)")

	rec = env.get(t, "/genres")
	require.Equal(t, http.StatusOK, rec.Code)
	assertOrdered(t, rec.Body.String(), "<li>Action</li>", "<li>Adventure</li>", "<li>MMORPG</li>", "<li>RPG</li>", "<li>Simulation</li>", "<li>Sport</li>")
}

func assertOrdered(t *testing.T, body string, items ...string) {
	t.Helper()
	last := -1
	for _, item := range items {
		idx := strings.Index(body, item)
		require.NotEqual(t, -1, idx, "missing %q", item)
		assert.Greater(t, idx, last, "%q out of order", item)
		last = idx
	}
}

func TestEditorPages(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.get(t, "/editors/create")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/editors/create"`)

	require.Equal(t, http.StatusFound, env.post(t, "/editors/create", url.Values{"name": {"Konami"}}).Code)

	rec = env.get(t, "/editors/1/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Konami"`)

	rec = env.post(t, "/editors/1/edit", url.Values{"name": {"Konami Digital"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/editors/1", rec.Header().Get("Location"))

	rec = env.get(t, "/editors/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Konami Digital")
	assert.Contains(t, rec.Body.String(), "No games for this editor.")

	rec = env.post(t, "/editors/create", url.Values{"name": {"  "}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to create editor")
}

func TestGameCreateFormListsOptions(t *testing.T) {
	env := newTestEnv(t, Options{})
	require.Equal(t, http.StatusFound, env.post(t, "/editors/create", url.Values{"name": {"Square"}}).Code)

	rec := env.get(t, "/games/create")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, ">Square</option>")
	for _, genre := range store.DefaultGenres {
		assert.Contains(t, body, ">"+genre+"</option>")
	}
}

func TestResponsesCarryRequestID(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.get(t, "/genres")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "style.css"), []byte("body{}"), 0o644))

	env := newTestEnv(t, Options{PublicDir: dir})

	rec := env.get(t, "/css/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, env.get(t, "/css/").Code)
	assert.Equal(t, http.StatusNotFound, env.get(t, "/missing.js").Code)
}

func TestCSRFProtectsForms(t *testing.T) {
	key := []byte(strings.Repeat("s", 32))
	env := newTestEnv(t, Options{CSRFKey: key})

	rec := env.get(t, "/editors/create")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gorilla.csrf.Token")

	rec = env.post(t, "/editors/create", url.Values{"name": {"Nintendo"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	editors, err := env.store.ListEditors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, editors)
}

func TestFormRateLimit(t *testing.T) {
	env := newTestEnv(t, Options{FormRatePerMinute: 2})

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusFound, env.post(t, "/editors/create", url.Values{"name": {"E"}}).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, env.post(t, "/editors/create", url.Values{"name": {"E"}}).Code)

	// Reads are not throttled.
	assert.Equal(t, http.StatusOK, env.get(t, "/editors").Code)
}
