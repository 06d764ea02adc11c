package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizownik/internal/i18n"
	"quizownik/internal/session"
)

func TestStatusRecorderWriteTracksAndTruncates(t *testing.T) {
	base := httptest.NewRecorder()
	recorder := &statusRecorder{
		ResponseWriter: base,
		statusCode:     http.StatusOK,
		maxLogBytes:    10,
	}

	payload := []byte("abcdefghijklmnopqrstuvwxyz")
	written, err := recorder.Write(payload)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if written != len(payload) {
		t.Fatalf("written bytes = %d, want %d", written, len(payload))
	}
	if recorder.bytesWritten != len(payload) {
		t.Fatalf("bytesWritten = %d, want %d", recorder.bytesWritten, len(payload))
	}
	if recorder.logBody.Len() != 10 {
		t.Fatalf("log body length = %d, want 10", recorder.logBody.Len())
	}
	if !recorder.truncated {
		t.Fatalf("expected truncated flag to be true")
	}

	if _, err := recorder.Write([]byte("more")); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if recorder.logBody.Len() != 10 || recorder.bytesWritten != len(payload)+4 {
		t.Fatalf("second write: logged %d, written %d", recorder.logBody.Len(), recorder.bytesWritten)
	}
	if base.Body.Len() != len(payload)+4 {
		t.Fatalf("underlying writer got %d bytes", base.Body.Len())
	}
}

func TestHealthz(t *testing.T) {
	router := NewRouter(NewAPI(nil, session.NewStore("secret", time.Hour, false), Options{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Status != "ok" {
		t.Fatalf("body = %s (%v)", rec.Body.String(), err)
	}
}

func TestUnknownLocaleIsNotFound(t *testing.T) {
	router := NewRouter(NewAPI(nil, session.NewStore("secret", time.Hour, false), Options{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/de/api/quizzes", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUnknownRouteUsesLocaleMessage(t *testing.T) {
	router := NewRouter(NewAPI(nil, session.NewStore("secret", time.Hour, false), Options{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/en/api/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != i18n.Message(i18n.English, i18n.NotFound) {
		t.Fatalf("error = %q", body.Error)
	}
}

func TestPanicIsRecoveredAsLocalized500(t *testing.T) {
	store := session.NewStore("secret", time.Hour, false)
	// A nil backend panics as soon as a handler touches it.
	router := NewRouter(NewAPI(nil, store, Options{}))

	req := httptest.NewRequest(http.MethodGet, "/en/api/user/profile", nil)
	req.AddCookie(sessionCookie(t, store, "tkn"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != i18n.Message(i18n.English, i18n.InternalError) {
		t.Fatalf("error = %q", body.Error)
	}
}
