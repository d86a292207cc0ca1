package handler

import (
	"net/http"
	"strings"

	"github.com/mechanio/garage/internal/api/request"
	"github.com/mechanio/garage/internal/api/response"
	"github.com/mechanio/garage/internal/core"
	"github.com/mechanio/garage/internal/model"
)

// SessionEndHook is notified when a session is closed, so background
// reconciliation for the actor can stop.
type SessionEndHook interface {
	SessionEnded(actor model.Actor)
}

type Session struct {
	svc  *core.SessionService
	hook SessionEndHook
}

func NewSession(svc *core.SessionService, hook SessionEndHook) *Session {
	return &Session{svc: svc, hook: hook}
}

func (h *Session) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]any{
		"token":      token,
		"expires_at": sess.ExpiresAt,
	})
}

func (h *Session) Logout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}

	token := bearerToken(r)
	if err := h.svc.Logout(r.Context(), token); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if h.hook != nil {
		h.hook.SessionEnded(*actor)
	}

	w.WriteHeader(http.StatusNoContent)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
