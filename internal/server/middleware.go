package server

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mbtanearby/backend-go/internal/api"
	"github.com/mbtanearby/backend-go/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the number of per-client limiters kept in memory
const maxTrackedClients = 10000

// requestLogger writes one log line and one latency observation per request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.ObserveHTTP(route, status, start)

		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("HTTP request")
	})
}

// rateLimiter keeps one token bucket per client address. Idle clients fall
// out of the LRU and start again with a full bucket.
type rateLimiter struct {
	limiters  *lru.Cache[string, *rate.Limiter]
	limit     rate.Limit
	burst     int
	perSecond int
}

func newRateLimiter(perSecond, burst int) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	limiters, err := lru.New[string, *rate.Limiter](maxTrackedClients)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &rateLimiter{
		limiters:  limiters,
		limit:     rate.Limit(perSecond),
		burst:     burst,
		perSecond: perSecond,
	}
}

func (rl *rateLimiter) limiterFor(client string) *rate.Limiter {
	if limiter, ok := rl.limiters.Get(client); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	// Another request may have added one meanwhile; keep the existing bucket
	if existing, ok, _ := rl.limiters.PeekOrAdd(client, limiter); ok {
		return existing
	}
	return limiter
}

func (rl *rateLimiter) handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiterFor(clientKey(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			// Sustained requests per second; bursts above it are absorbed by the bucket
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.perSecond))
			w.Header().Set("X-RateLimit-Remaining", "0")
			writeJSON(w, http.StatusTooManyRequests, api.NewErrorResponse("Rate limit exceeded. Please try again later."))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the caller's IP; RealIP has already rewritten RemoteAddr from proxy headers
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
