package server

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/SigireddyBalasai/hey-bear-sub000/contentstore"
	"github.com/SigireddyBalasai/hey-bear-sub000/ingestion"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage"
	"github.com/panjf2000/ants/v2"
)

// Server routes HTTP requests to the ingestion pipeline and the
// destination and file management operations.
type Server struct {
	pipeline     *ingestion.Pipeline
	destinations storage.DestinationRepository
	keys         storage.APIKeyRepository
	crawl        ingestion.CrawlService
	store        contentstore.Store

	ingestPool *ants.Pool
	handler    http.Handler
	httpServer *http.Server
	logger     *slog.Logger
	debug      bool
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// WithIngestPoolSize sets the number of ingest requests served
// concurrently. Default is runtime.NumCPU(), with a minimum of 1.
func WithIngestPoolSize(size int) Option {
	return func(s *Server) error {
		if size < 1 {
			size = 1
		}
		if s.ingestPool != nil {
			s.ingestPool.Release()
		}
		pool, err := ants.NewPool(size, ants.WithNonblocking(true))
		if err != nil {
			return err
		}
		s.ingestPool = pool
		return nil
	}
}

// WithDebug includes underlying error detail in 500 responses.
// Off by default; panics and unexpected failures respond with a
// generic message.
func WithDebug(debug bool) Option {
	return func(s *Server) error {
		s.debug = debug
		return nil
	}
}

// NewServer creates an HTTP server around the given collaborators.
// Callers own the repositories and must close them after Shutdown.
func NewServer(
	pipeline *ingestion.Pipeline,
	destinations storage.DestinationRepository,
	keys storage.APIKeyRepository,
	crawl ingestion.CrawlService,
	store contentstore.Store,
	opts ...Option,
) (*Server, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if destinations == nil {
		return nil, ErrDestinationRepositoryRequired
	}
	if keys == nil {
		return nil, ErrAPIKeyRepositoryRequired
	}
	if crawl == nil {
		return nil, ErrCrawlServiceRequired
	}
	if store == nil {
		return nil, ErrContentStoreRequired
	}

	pool, err := ants.NewPool(runtime.NumCPU(), ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	s := &Server{
		pipeline:     pipeline,
		destinations: destinations,
		keys:         keys,
		crawl:        crawl,
		store:        store,
		ingestPool:   pool,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.ingestPool.Release()
			return nil, err
		}
	}

	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.Handle("POST /v1/ingest/url", s.authenticate(http.HandlerFunc(s.handleIngestURL)))
	mux.Handle("GET /v1/crawl-tasks/{id}", s.authenticate(http.HandlerFunc(s.handleCrawlTask)))

	mux.Handle("POST /v1/destinations", s.authenticate(http.HandlerFunc(s.handleAddDestination)))
	mux.Handle("GET /v1/destinations", s.authenticate(http.HandlerFunc(s.handleListDestinations)))
	mux.Handle("GET /v1/destinations/{id}", s.authenticate(http.HandlerFunc(s.handleGetDestination)))
	mux.Handle("DELETE /v1/destinations/{id}", s.authenticate(http.HandlerFunc(s.handleDeleteDestination)))

	mux.Handle("GET /v1/destinations/{id}/files", s.authenticate(http.HandlerFunc(s.handleListFiles)))
	mux.Handle("POST /v1/destinations/{id}/files", s.authenticate(http.HandlerFunc(s.handleUploadFile)))
	mux.Handle("DELETE /v1/destinations/{id}/files/{fileId}", s.authenticate(http.HandlerFunc(s.handleDeleteFile)))

	return s.recover(s.logRequests(mux))
}

// Handler returns the fully wired route tree. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe starts serving on addr and blocks until the listener
// fails or Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server listening", "addr", addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and releases the ingest pool.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.ingestPool.Release()
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
