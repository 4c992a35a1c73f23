package http

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/service"
	"github.com/robertarktes/ticketing-platform/internal/session"
)

func toRegisterInput(name, email, password, role, organization, phone string) service.RegisterInput {
	return service.RegisterInput{
		Name:         name,
		Email:        email,
		Password:     password,
		Role:         domain.Role(role),
		Organization: organization,
		Phone:        phone,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Role         string `json:"role"`
		Organization string `json:"organization,omitempty"`
		Phone        string `json:"phone,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	user, err := h.auth.Register(r.Context(), toRegisterInput(req.Name, req.Email, req.Password, req.Role, req.Organization, req.Phone))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "registration successful",
		"userId":  user.ID,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	identity := domain.Identity{UserID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	token, err := h.sessions.Create(r.Context(), identity)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "login successful",
		"user": map[string]interface{}{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r.Context())
	if token != "" {
		if err := h.sessions.Destroy(r.Context(), token); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	identity, ok := CallerIdentity(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"loggedIn": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loggedIn": true,
		"user": map[string]interface{}{
			"id":    identity.UserID,
			"name":  identity.Name,
			"email": identity.Email,
			"role":  identity.Role,
		},
	})
}
