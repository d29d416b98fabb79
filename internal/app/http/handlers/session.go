package handlers

import (
	"errors"
	"net/http"

	"tomatocr/cotizador/internal/domain/access"
)

const SessionCookie = "tomato_session"

type sessionRequest struct {
	PIN string `json:"pin"`
}

// CreateSession exchanges the PIN for a session cookie. The cookie has
// no expiry so it ends with the browser session.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	token, err := h.Gate.Verify(r.Context(), req.PIN)
	h.Metrics.AccessAttempt(err == nil)
	if err != nil {
		if !errors.Is(err, access.ErrAccessDenied) {
			h.writeError(w, err)
			return
		}
		http.Error(w, "PIN incorrecto", http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		h.Gate.Revoke(c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}
