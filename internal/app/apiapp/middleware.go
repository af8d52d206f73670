package apiapp

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	accesssvc "github.com/Denner-Esteves/painel-approve/internal/services/access"
)

const (
	operatorIDHeader   = "X-Operator-Id"
	operatorNameHeader = "X-Operator-Name"
)

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
	r.Use(OperatorMiddleware())
}

// OperatorMiddleware lifts the operator identity set by the upstream identity
// proxy into the request context. Requests without the headers pass through
// anonymously; handlers that stamp an approver fall back to a generic name.
func OperatorMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(operatorIDHeader)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			operator := accesssvc.Operator{
				ID:   id,
				Name: r.Header.Get(operatorNameHeader),
			}
			next.ServeHTTP(w, r.WithContext(accesssvc.WithOperator(r.Context(), operator)))
		})
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
