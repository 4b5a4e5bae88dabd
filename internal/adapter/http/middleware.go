package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"cafeteria-backend/internal/adapter/logger"
	"cafeteria-backend/internal/adapter/redis"
	"cafeteria-backend/internal/app/idempotency"
	"cafeteria-backend/internal/domain"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	requesterKey contextKey = "requester"
)

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func requesterFrom(ctx context.Context) (domain.Requester, bool) {
	r, ok := ctx.Value(requesterKey).(domain.Requester)
	return r, ok
}

// RequestIDMiddleware honors an upstream X-Request-ID or assigns one.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			lgr.Info("http_request", fmt.Sprintf("%s %s", r.Method, r.URL.Path), requestIDFrom(r.Context()), map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

func RecoveryMiddleware(lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					lgr.Error("panic_recovered", "Panic recovered", requestIDFrom(r.Context()), map[string]interface{}{
						"path": r.URL.Path,
					}, fmt.Errorf("%v", v))
					writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequesterMiddleware resolves the caller identity set by the upstream auth
// gateway. Requests without it pass through anonymously; route guards decide
// whether that is acceptable.
func RequesterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get("X-User-ID")
		if rawID == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := strconv.Atoi(rawID)
		if err != nil || id <= 0 {
			writeErrorMessage(w, http.StatusBadRequest, "invalid X-User-ID header")
			return
		}
		role := domain.Role(r.Header.Get("X-User-Role"))
		switch role {
		case domain.RoleCliente, domain.RoleEmpleado, domain.RoleAdmin:
		default:
			role = domain.RoleCliente
		}
		requester := domain.Requester{ID: id, Role: role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requesterKey, requester)))
	})
}

func RequireRequester(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requesterFrom(r.Context()); !ok {
			writeErrorMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requester, ok := requesterFrom(r.Context())
		if !ok {
			writeErrorMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !requester.Staff() {
			writeErrorMessage(w, http.StatusForbidden, "insufficient role")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimitMiddleware enforces a fixed window per client. The requester ID
// keys the bucket when present, the client IP otherwise. A limiter outage
// fails open: dropping traffic because Redis blinked is worse than briefly
// not limiting it.
func RateLimitMiddleware(limiter *redis.RateLimiter, scope string, limit int, window time.Duration, lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientKey(r)
			allowed, err := limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				lgr.Warn("rate_limit_unavailable", "Rate limiter check failed, allowing request", requestIDFrom(r.Context()), map[string]interface{}{
					"key": key,
				})
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeErrorMessage(w, http.StatusTooManyRequests, "too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if requester, ok := requesterFrom(r.Context()); ok {
		return strconv.Itoa(requester.ID)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// bodyRecorder buffers the handler's response so it can be stored and
// replayed for idempotent retries.
type bodyRecorder struct {
	header http.Header
	status int
	body   []byte
}

func newBodyRecorder() *bodyRecorder {
	return &bodyRecorder{header: make(http.Header), status: http.StatusOK}
}

func (br *bodyRecorder) Header() http.Header { return br.header }

func (br *bodyRecorder) WriteHeader(code int) { br.status = code }

func (br *bodyRecorder) Write(p []byte) (int, error) {
	br.body = append(br.body, p...)
	return len(p), nil
}

// IdempotencyMiddleware deduplicates retried submissions. The Idempotency-Key
// header is optional; when present it must be a UUID. Replays return the
// stored response without re-running the handler.
func IdempotencyMiddleware(guard *idempotency.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := uuid.Parse(key); err != nil {
				writeErrorMessage(w, http.StatusBadRequest, "Idempotency-Key must be a valid UUID")
				return
			}
			requester, ok := requesterFrom(r.Context())
			if !ok {
				writeErrorMessage(w, http.StatusUnauthorized, "authentication required")
				return
			}

			rec, replayed, err := guard.Execute(r.Context(), key, requester.ID, func() (*idempotency.Record, error) {
				br := newBodyRecorder()
				next.ServeHTTP(br, r)
				return &idempotency.Record{Status: br.status, Body: br.body}, nil
			})
			if err != nil {
				writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
				return
			}

			w.Header().Set("Content-Type", "application/json")
			if replayed {
				w.Header().Set("X-Idempotent-Replay", "true")
			}
			w.WriteHeader(rec.Status)
			w.Write(rec.Body)
		})
	}
}
