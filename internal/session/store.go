package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"quizownik/internal/backend"
)

var logger = logrus.WithField("module", "Session")

const CookieName = "quizownik_session"

const tokenClaim = "tok"

// Session is the request-scoped view of the session cookie.
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time

	identity *backend.User
}

// WhoAmI resolves the user behind a bearer token.
type WhoAmI func(ctx context.Context, token string) (backend.User, error)

// Identity resolves the caller once per request and memoizes the result.
func (s *Session) Identity(ctx context.Context, whoami WhoAmI) (backend.User, error) {
	if s.identity != nil {
		return *s.identity, nil
	}
	user, err := whoami(ctx, s.Token)
	if err != nil {
		return backend.User{}, err
	}
	s.identity = &user
	return user, nil
}

type Store struct {
	auth    *jwtauth.JWTAuth
	sealKey []byte
	ttl     time.Duration
	secure  bool
	now     func() time.Time
}

func NewStore(secret string, ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{
		auth:    jwtauth.New("HS256", deriveKey("sign", secret), nil),
		sealKey: deriveKey("seal", secret),
		ttl:     ttl,
		secure:  secure,
		now:     time.Now,
	}
}

// Create writes a cookie carrying token, replacing any previous session.
func (s *Store) Create(w http.ResponseWriter, token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("session: empty bearer token")
	}

	sealed, err := seal(s.sealKey, token)
	if err != nil {
		return errors.Wrap(err, "session: seal token")
	}

	now := s.now().UTC()
	expires := now.Add(s.ttl)
	claims := jwtauth.Claims{
		"jti":      uuid.NewString(),
		tokenClaim: sealed,
	}.SetIssuedAt(now).SetExpiry(expires)

	_, signed, err := s.auth.Encode(claims)
	if err != nil {
		return errors.Wrap(err, "session: sign cookie")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current returns the caller's session, or nil when the cookie is missing,
// expired or does not verify.
func (s *Store) Current(r *http.Request) *Session {
	token, err := jwtauth.VerifyRequest(s.auth, r, tokenFromCookie)
	if err != nil {
		if err != jwtauth.ErrNoTokenFound {
			logger.WithError(err).Debug("rejecting session cookie")
		}
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return s.fromClaims(jwtauth.Claims(claims))
}

func (s *Store) Delete(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Verifier decodes the session cookie into the request context.
func (s *Store) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verify(s.auth, tokenFromCookie)
}

// Authenticator passes requests with a verified session on to next with the
// session in their context, and everything else to onMissing.
func (s *Store) Authenticator(onMissing http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil || !token.Valid {
				onMissing.ServeHTTP(w, r)
				return
			}

			current := s.fromClaims(claims)
			if current == nil {
				onMissing.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), current)))
		})
	}
}

func (s *Store) fromClaims(claims jwtauth.Claims) *Session {
	sealed, _ := claims[tokenClaim].(string)
	if sealed == "" {
		return nil
	}
	bearer, err := unseal(s.sealKey, sealed)
	if err != nil {
		logger.WithError(err).Warn("session cookie verified but token does not unseal")
		return nil
	}

	current := &Session{Token: bearer}
	current.ID, _ = claims["jti"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		current.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return current
}

func tokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

type ctxKey struct{}

func NewContext(ctx context.Context, current *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, current)
}

// FromContext returns the session placed by Authenticator, or nil.
func FromContext(ctx context.Context) *Session {
	current, _ := ctx.Value(ctxKey{}).(*Session)
	return current
}
