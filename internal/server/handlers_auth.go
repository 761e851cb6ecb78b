package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/tartampluch/go-birthday-web/internal/auth"
	"github.com/tartampluch/go-birthday-web/internal/config"
)

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.auth.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.UsersRegistered.Inc()

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: s.translator(r).T(config.TKeyMsgRegistered, nil),
		User:    userResponse{ID: id.UserID, Username: id.Username},
	})
}

// handleLogin answers with the token and also sets it as an HttpOnly cookie,
// so browsers and API clients share one endpoint.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.auth.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.metrics.LoginFailures.Inc()
		}
		s.writeError(w, r, err)
		return
	}

	expires := time.Unix(session.ExpiresAt, 0).UTC()
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: expires,
		User:      userResponse{ID: session.UserID, Username: session.Username},
	})
}

// handleLogout clears the cookie. Tokens are stateless and stay valid until
// they expire.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, messageEnvelope{Message: s.translator(r).T(config.TKeyMsgLoggedOut, nil)})
}
