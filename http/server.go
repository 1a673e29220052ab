package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"vapeur/catalog"
)

// Options tunes the HTTP layer. Zero values disable CSRF and form rate limiting.
type Options struct {
	PublicDir         string
	CSRFKey           []byte
	SecureCookies     bool
	FormRatePerMinute int
}

type Server struct {
	router   *mux.Router
	handlers *Handlers
	log      logrus.FieldLogger
}

func NewServer(catalog *catalog.Catalog, renderer *Renderer, log logrus.FieldLogger, opts Options) *Server {
	router := mux.NewRouter()
	handlers := NewHandlers(catalog, renderer, log)

	server := &Server{
		router:   router,
		handlers: handlers,
		log:      log,
	}

	server.setupRoutes(opts)
	return server
}

func (s *Server) setupRoutes(opts Options) {
	s.router.Use(RequestIDMiddleware)
	s.router.Use(InstrumentMiddleware(s.log))
	s.router.Use(SecurityHeadersMiddleware)

	if len(opts.CSRFKey) > 0 {
		if !opts.SecureCookies {
			s.router.Use(plaintextMiddleware)
		}
		s.router.Use(csrf.Protect(opts.CSRFKey,
			csrf.Secure(opts.SecureCookies),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				s.log.WithField("reason", csrf.FailureReason(r)).Warn("CSRF check failed")
				http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
			})),
		))
	}

	form := func(h http.HandlerFunc) http.Handler { return h }
	if opts.FormRatePerMinute > 0 {
		limiter := NewRateLimiter(rate.Limit(float64(opts.FormRatePerMinute)/60.0), opts.FormRatePerMinute)
		form = func(h http.HandlerFunc) http.Handler { return limiter.Middleware(h) }
	}

	s.router.HandleFunc("/", s.handlers.Home).Methods("GET")

	// Games
	s.router.HandleFunc("/games", s.handlers.ListGames).Methods("GET")
	s.router.HandleFunc("/games/create", s.handlers.NewGameForm).Methods("GET")
	s.router.Handle("/games/create", form(s.handlers.CreateGame)).Methods("POST")
	s.router.HandleFunc("/games/{id:[0-9]+}", s.handlers.GetGame).Methods("GET")
	s.router.HandleFunc("/games/{id:[0-9]+}/edit", s.handlers.EditGameForm).Methods("GET")
	s.router.Handle("/games/{id:[0-9]+}/edit", form(s.handlers.UpdateGame)).Methods("POST")
	s.router.Handle("/games/{id:[0-9]+}/delete", form(s.handlers.DeleteGame)).Methods("POST")

	// Genres
	s.router.HandleFunc("/genres", s.handlers.ListGenres).Methods("GET")

	// Editors
	s.router.HandleFunc("/editors", s.handlers.ListEditors).Methods("GET")
	s.router.HandleFunc("/editors/create", s.handlers.NewEditorForm).Methods("GET")
	s.router.Handle("/editors/create", form(s.handlers.CreateEditor)).Methods("POST")
	s.router.HandleFunc("/editors/{id:[0-9]+}", s.handlers.GetEditor).Methods("GET")
	s.router.HandleFunc("/editors/{id:[0-9]+}/edit", s.handlers.EditEditorForm).Methods("GET")
	s.router.Handle("/editors/{id:[0-9]+}/edit", form(s.handlers.UpdateEditor)).Methods("POST")
	s.router.Handle("/editors/{id:[0-9]+}/delete", form(s.handlers.DeleteEditor)).Methods("POST")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Static files from the public directory (no directory listings)
	if opts.PublicDir != "" {
		s.router.PathPrefix("/").Methods("GET", "HEAD").Handler(noCacheHandler(staticHandler(opts.PublicDir)))
	}
}

func staticHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func noCacheHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		h.ServeHTTP(w, r)
	})
}

// plaintextMiddleware tells gorilla/csrf the request arrived over plain HTTP.
func plaintextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) GetHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
