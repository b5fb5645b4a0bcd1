package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	logpkg "github.com/rzbill/snowflake/pkg/log"
	"github.com/rzbill/snowflake/pkg/snowflake"
)

// Server exposes the generator over a small REST surface: mint one ID, mint
// a batch, parse an ID, and health.
type Server struct {
	gen    *snowflake.Generator
	srv    *http.Server
	lis    net.Listener
	logger logpkg.Logger
}

// New creates a Server around a shared generator.
func New(gen *snowflake.Generator, logger logpkg.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{gen: gen, logger: logger.WithComponent("http")}
	s.srv = &http.Server{Handler: cors(s.requestLog(mux))}
	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/ids/next", s.handleNext)
	mux.HandleFunc("/v1/ids", s.handleBatch)
	mux.HandleFunc("/v1/ids/parse", s.handleParse)
	return s
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLog tags each request with a request id and logs it at debug.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		s.logger.Debug("request",
			logpkg.Str("method", r.Method),
			logpkg.Str("path", r.URL.Path),
			logpkg.Str("request_id", reqID),
		)
		next.ServeHTTP(w, r)
	})
}
