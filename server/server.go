// Package server exposes the booking workflow as a JSON HTTP API. Every
// handler error is classified into a user-safe message and a recovery
// action here, at the caller boundary.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-travel-booking/booking"
	"github.com/jrsteele09/go-travel-booking/internal/config"
	"github.com/jrsteele09/go-travel-booking/recovery"
	"github.com/jrsteele09/go-travel-booking/server/workspaces"
	"github.com/rs/zerolog"
)

// OfferCatalog learns the offers callers start sessions with. The mock
// provider implements it so fallback responses quote the same prices.
type OfferCatalog interface {
	RememberFlightOffer(offer booking.FlightOffer)
	RememberHotelOffer(offer booking.HotelOffer)
}

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	workspaces workspaces.Repo
	classifier *recovery.Classifier
	catalog    OfferCatalog
	tokens     *clientTokens
	logger     zerolog.Logger
	nowTime    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// WithClassifier replaces the default error classifier.
func WithClassifier(c *recovery.Classifier) Option {
	return func(s *Server) {
		s.classifier = c
	}
}

// WithOfferCatalog registers a catalog told about every started offer.
func WithOfferCatalog(catalog OfferCatalog) Option {
	return func(s *Server) {
		s.catalog = catalog
	}
}

func New(cfg config.Config, repo workspaces.Repo, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if repo == nil {
		return nil, errors.New("[Server New] workspace repo is required")
	}
	if cfg.GetClientTokenSecret() == "" {
		return nil, errors.New("[Server New] client token secret is required")
	}
	if cfg.GetClientTokenSecret() == config.DefaultClientTokenSecret && cfg.GetEnv() != "DEV" {
		return nil, errors.New("[Server New] CLIENT_TOKEN_SECRET must be set outside DEV")
	}

	s := &Server{
		env:        cfg.GetEnv(),
		mux:        http.NewServeMux(),
		config:     cfg,
		workspaces: repo,
		classifier: recovery.NewClassifier(),
		logger:     zerolog.Nop(),
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.tokens = newClientTokens(cfg.GetClientTokenSecret(), s.nowTime)

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	s.logger.Debug().Msgf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
