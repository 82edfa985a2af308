package server

import (
	"net/http"
	"strings"
	"time"

	"todoweb/internal/auth"
	"todoweb/internal/config"
	"todoweb/internal/identity"
	"todoweb/internal/model"
)

// bootstrapTimeout is the single bounded wait of the session bootstrap; if
// identity resolution does not answer in time the request proceeds as the
// anonymous identity.
const bootstrapTimeout = 2 * time.Second

type identityHandler func(w http.ResponseWriter, r *http.Request, user *model.User)

// withIdentity resolves the caller before the handler runs. Password mode
// demands a valid Bearer token; name mode runs the bootstrap state machine
// over the optional X-User-Name header.
func (s *Server) withIdentity(next identityHandler) http.HandlerFunc {
	if s.authMode == config.AuthModePassword {
		return s.withToken(next)
	}
	return s.withBootstrap(next)
}

func (s *Server) withToken(next identityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.accounts.Authenticate(r.Context(), token)
		if err != nil {
			writeFailure(w, err)
			return
		}
		next(w, r, user)
	}
}

func (s *Server) withBootstrap(next identityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := auth.NewBootstrap()
		b.Begin()

		go func() {
			name := strings.TrimSpace(r.Header.Get("X-User-Name"))
			if name == "" {
				b.Apply(auth.SessionAbsent())
				return
			}
			user, err := s.resolver.Resolve(r.Context(), name)
			if err != nil {
				b.Apply(auth.BootstrapError(err))
				return
			}
			b.Apply(auth.SessionFound(user))
		}()

		user, state := b.WaitResolved(bootstrapTimeout)
		switch state {
		case auth.StateResolvedIdentity:
			next(w, r, user)
		case auth.StateResolvedAnonymous:
			anon, err := s.resolver.Resolve(r.Context(), identity.AnonymousName)
			if err != nil {
				writeFailure(w, err)
				return
			}
			next(w, r, anon)
		default:
			writeFailure(w, b.Err())
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
