package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"chirp/crud"
	"chirp/domain"
	"chirp/metrics"
)

// Server provides the http functionality of the app: routing, request
// handling and middleware. It resolves the authenticated user from the
// remember-token cookie before handing things over to the feed service.
type Server struct {
	router *mux.Router
	us     domain.UserService
	as     domain.AuthorService
	fs     domain.FeedService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(isProd bool, csrfKey string, services *crud.Services) *Server {
	s := &Server{
		router: mux.NewRouter(),
		us:     services.User,
		as:     services.Author,
		fs:     services.Feed,
	}

	// Routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Routes of the feed system.
	s.registerFeedRoutes(s.router)

	// Prometheus collectors from the metrics package.
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Middleware that runs on every request. A fresh CSRF token is issued
	// on any GET request.
	csrfMw := csrf.Protect([]byte(csrfKey), csrf.Secure(isProd), csrf.Path("/"))
	s.router.Use(csrfMw, setContentTypeJSON, s.instrument, s.authUser)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// instrument logs the request and counts it by method and route template.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		metrics.HTTPRequests.WithLabelValues(r.Method, path).Inc()
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   path,
		}).Info("request")
		next.ServeHTTP(w, r)
	})
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	logrus.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.router))
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
