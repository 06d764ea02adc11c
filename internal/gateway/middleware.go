package gateway

import (
	"bytes"
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/sirupsen/logrus"

	"quizownik/internal/i18n"
)

const defaultMaxLogBytes = 2048

type localeKey struct{}

// locale is the request's path locale, or the configured default outside
// the locale prefix.
func (a *API) locale(r *http.Request) i18n.Locale {
	if locale, ok := r.Context().Value(localeKey{}).(i18n.Locale); ok {
		return locale
	}
	return a.defaultLocale
}

// withLocale resolves the {locale} path prefix. Unsupported locales are 404.
func (a *API) withLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale, ok := i18n.Parse(chi.URLParam(r, "locale"))
		if !ok {
			a.writeError(w, r, http.StatusNotFound, i18n.NotFound, nil, nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey{}, locale)))
	})
}

// dontPanic turns a handler panic into a localized 500.
func (a *API) dontPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				logger.WithFields(logrus.Fields{
					"panic":      rvr,
					"path":       r.URL.Path,
					"request_id": middleware.GetReqID(r.Context()),
				}).Error(string(debug.Stack()))
				a.writeError(w, r, http.StatusInternalServerError, i18n.InternalError, nil, nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	maxLogBytes  int
	logBody      bytes.Buffer
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	written, err := r.ResponseWriter.Write(p)
	r.bytesWritten += written

	remaining := r.maxLogBytes - r.logBody.Len()
	switch {
	case remaining <= 0:
		r.truncated = r.truncated || len(p) > 0
	case len(p) > remaining:
		r.logBody.Write(p[:remaining])
		r.truncated = true
	default:
		r.logBody.Write(p)
	}
	return written, err
}

// requestLogger writes one access log line per request; failed requests also
// get the head of their response body.
func requestLogger(maxLogBytes int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			recorder := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				maxLogBytes:    maxLogBytes,
			}

			next.ServeHTTP(recorder, r)

			entry := logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     recorder.statusCode,
				"bytes":      recorder.bytesWritten,
				"duration":   time.Since(started),
				"remote":     r.RemoteAddr,
				"request_id": middleware.GetReqID(r.Context()),
			})
			if recorder.statusCode < http.StatusBadRequest {
				entry.Info("request served")
				return
			}
			entry = entry.WithField("body", recorder.logBody.String())
			if recorder.truncated {
				entry = entry.WithField("truncated", true)
			}
			entry.Warn("request failed")
		})
	}
}
