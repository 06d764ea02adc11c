package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/sirupsen/logrus"

	"quizownik/internal/fault"
	"quizownik/internal/form"
	"quizownik/internal/i18n"
	"quizownik/internal/session"
)

const maxBodyBytes = 1 << 20

// call forwards one request to the external API with the caller's token.
type call func(ctx context.Context, token string) (json.RawMessage, error)

// outcome customizes how a forwarded call is answered.
type outcome struct {
	success    i18n.Key
	statusKeys map[int]i18n.Key
}

func (a *API) forward(w http.ResponseWriter, r *http.Request, o outcome, fn call) {
	caller := session.FromContext(r.Context())
	if caller == nil {
		a.writeFault(w, r, fault.NewUnauthorized(), nil)
		return
	}

	raw, err := fn(r.Context(), caller.Token)
	if err != nil {
		a.writeFault(w, r, err, o.statusKeys)
		return
	}

	if len(raw) == 0 {
		success := o.success
		if success == "" {
			success = i18n.Success
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: a.message(r, success)})
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// requireAdmin applies the admin policy to the caller. It writes the response
// and returns false when the request must stop.
func (a *API) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !a.adminGuard {
		return true
	}
	caller := session.FromContext(r.Context())
	if caller == nil {
		a.writeFault(w, r, fault.NewUnauthorized(), nil)
		return false
	}

	user, err := caller.Identity(r.Context(), a.backend.WhoAmI)
	if err != nil {
		a.writeFault(w, r, err, nil)
		return false
	}
	if !user.IsAdmin() {
		logger.WithFields(logrus.Fields{"user": user.ID, "path": r.URL.Path}).Warn("non-admin attempted an admin mutation")
		a.writeFault(w, r, fault.NewForbidden(), nil)
		return false
	}
	return true
}

// decode reads a JSON body into dst and validates it. It writes a 400 and
// returns false on any violation.
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		a.writeError(w, r, http.StatusBadRequest, i18n.InvalidData, map[string]string{"form": "invalid_json"}, nil)
		return false
	}
	if fields := form.Validate(dst); fields != nil {
		a.writeFault(w, r, fault.NewValidation(fields), nil)
		return false
	}
	return true
}

func (a *API) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil || id <= 0 {
		a.writeError(w, r, http.StatusBadRequest, i18n.InvalidData, map[string]string{"id": "invalid"}, nil)
		return 0, false
	}
	return id, true
}

func (a *API) writeFault(w http.ResponseWriter, r *http.Request, err error, statusKeys map[int]i18n.Key) {
	target, ok := fault.As(err)
	if !ok {
		logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		a.writeError(w, r, http.StatusInternalServerError, i18n.InternalError, nil, nil)
		return
	}

	switch target.Kind {
	case fault.Validation:
		a.writeError(w, r, http.StatusBadRequest, i18n.InvalidData, target.Fields, nil)
	case fault.Unauthorized:
		a.writeUnauthorized(w, r)
	case fault.Forbidden:
		a.writeError(w, r, http.StatusForbidden, i18n.Forbidden, nil, nil)
	case fault.Transport:
		logger.WithError(target.Err).WithField("path", r.URL.Path).Error("external api unavailable")
		a.writeError(w, r, http.StatusServiceUnavailable, i18n.BackendUnavailable, nil, nil)
	case fault.Upstream:
		if target.Status == http.StatusUnauthorized {
			a.sessions.Delete(w)
		}
		key, ok := statusKeys[target.Status]
		if !ok {
			key = upstreamKey(target.Status)
		}
		a.writeError(w, r, target.Status, key, nil, target.Details())
	default:
		logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		a.writeError(w, r, http.StatusInternalServerError, i18n.InternalError, nil, nil)
	}
}

func upstreamKey(status int) i18n.Key {
	switch status {
	case http.StatusUnauthorized:
		return i18n.SessionExpired
	case http.StatusForbidden:
		return i18n.Forbidden
	case http.StatusNotFound:
		return i18n.NotFound
	case http.StatusConflict:
		return i18n.Conflict
	case http.StatusTooManyRequests:
		return i18n.TooManyRequests
	case http.StatusBadRequest:
		return i18n.InvalidData
	default:
		return i18n.BackendError
	}
}

func (a *API) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	a.writeError(w, r, http.StatusUnauthorized, i18n.Unauthorized, nil, nil)
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, status int, key i18n.Key, fields map[string]string, details any) {
	writeJSON(w, status, errorResponse{
		Error:   a.message(r, key),
		Fields:  fields,
		Details: details,
	})
}

func (a *API) message(r *http.Request, key i18n.Key) string {
	return a.translate(a.locale(r), key)
}

func parseIntQuery(r *http.Request, key string, defaultValue int, valid func(int) bool) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || !valid(parsed) {
		return defaultValue
	}
	return parsed
}

func writeRaw(w http.ResponseWriter, statusCode int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(raw)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
