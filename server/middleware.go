package server

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/SigireddyBalasai/hey-bear-sub000/core"
	"github.com/SigireddyBalasai/hey-bear-sub000/storage"
)

type contextKey int

const ownerContextKey contextKey = 1

// ownerFromContext returns the authenticated owner id, or "" when the
// request skipped authentication.
func ownerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerContextKey).(string)
	return owner
}

// authenticate resolves the bearer key to a stored key record by digest
// and stamps the owner onto the request context. Key material never
// touches storage; only the BLAKE2b digest is looked up.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer API key")
			return
		}

		record, err := s.keys.GetAPIKey(r.Context(), core.IDFromContent(token))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid API key")
				return
			}
			s.writeInternalError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ownerContextKey, record.OwnerId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// recover converts handler panics into 500 responses so one bad request
// cannot take the listener down.
func (s *Server) recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error("handler panic",
					"path", r.URL.Path,
					"panic", v,
					"stack", string(debug.Stack()))
				message := ""
				if s.debug {
					message = "panic serving " + r.URL.Path
				}
				writeError(w, http.StatusInternalServerError, "internal server error", message)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
