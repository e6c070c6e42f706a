package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rzbill/tixid/internal/runtime"
	"github.com/rzbill/tixid/internal/server/http/controllers"
	idsvc "github.com/rzbill/tixid/internal/services/ids"
	logpkg "github.com/rzbill/tixid/pkg/log"
)

// RequestIDHeader is read for, and echoed with, a request id.
const RequestIDHeader = "X-Request-ID"

type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	logger logpkg.Logger
}

func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	if logger == nil {
		logger = rt.Logger()
	}
	logger = logger.WithComponent("http")
	mux := http.NewServeMux()
	controllers.NewControllerRegistry(rt, idsvc.NewWithLogger(rt, logger)).RegisterAllRoutes(mux)
	mux.Handle("/metrics", rt.Metrics().Handler())

	s := &Server{rt: rt, logger: logger}
	s.srv = &http.Server{
		Handler:           cors(requestID(s.accessLog(mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          logpkg.ToStdLogger(logger, logpkg.WarnLevel),
	}
	return s
}

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

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader+", Retry-After")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestID propagates X-Request-ID into the request context, minting one when absent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(logpkg.ContextWithRequestID(r.Context(), rid)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.WithContext(r.Context()).Debug("http.request",
			logpkg.Str("method", r.Method),
			logpkg.Str("path", r.URL.Path),
			logpkg.Int("status", rec.status),
			logpkg.Dur("dur_ms", time.Since(start)),
		)
	})
}
