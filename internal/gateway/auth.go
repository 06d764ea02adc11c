package gateway

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"quizownik/internal/account"
	"quizownik/internal/i18n"
)

func (a *API) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req account.SignupRequest
	if !a.decode(w, r, &req) {
		return
	}

	token, err := a.backend.Register(r.Context(), req.Registration())
	if err != nil {
		a.writeAccountFailure(w, r, account.SignupFailure(err), err)
		return
	}
	a.establish(w, r, token)
}

func (a *API) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req account.LoginRequest
	if !a.decode(w, r, &req) {
		return
	}

	token, err := a.backend.Authenticate(r.Context(), req.Credentials())
	if err != nil {
		a.writeAccountFailure(w, r, account.LoginFailure(err), err)
		return
	}
	a.establish(w, r, token)
}

func (a *API) HandleLogout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Delete(w)
	writeJSON(w, http.StatusOK, redirectResponse{Redirect: account.LoginPath(a.locale(r))})
}

func (a *API) establish(w http.ResponseWriter, r *http.Request, token string) {
	if err := a.sessions.Create(w, token); err != nil {
		logger.WithError(err).Error("failed to create session")
		a.writeError(w, r, http.StatusInternalServerError, i18n.InternalError, nil, nil)
		return
	}
	writeJSON(w, http.StatusOK, redirectResponse{Redirect: account.ProfilePath(a.locale(r))})
}

func (a *API) writeAccountFailure(w http.ResponseWriter, r *http.Request, failure account.Failure, err error) {
	entry := logger.WithFields(logrus.Fields{"path": r.URL.Path, "status": failure.Status, "code": failure.Code})
	if failure.Code == account.CodeServerError {
		entry.WithError(err).Error("auth request failed")
	} else {
		entry.Info("auth request rejected")
	}

	a.writeError(w, r, failure.Status, failure.Code.MessageKey(), map[string]string{failure.Field: string(failure.Code)}, nil)
}
