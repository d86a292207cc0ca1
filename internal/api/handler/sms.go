package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mechanio/garage/internal/api/request"
	"github.com/mechanio/garage/internal/api/response"
	"github.com/mechanio/garage/internal/core"
)

type SMS struct {
	svc    *core.SMSService
	logger zerolog.Logger
}

func NewSMS(svc *core.SMSService, logger zerolog.Logger) *SMS {
	return &SMS{svc: svc, logger: logger}
}

func (h *SMS) RequestCode(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}

	var req request.RequestSMSCode
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	code, err := h.svc.RequestCode(r.Context(), *actor, req.Phone)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// No SMS gateway is wired; the code is logged for operator delivery.
	h.logger.Info().
		Str("actor_id", actor.UserID).
		Str("phone", req.Phone).
		Str("code", code).
		Msg("sms verification code issued")

	response.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *SMS) ValidateCode(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}

	var req request.ValidateSMSCode
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.ValidateCode(r.Context(), *actor, req.Code); err != nil {
		response.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "validated"})
}
