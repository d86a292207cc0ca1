package handler

import (
	"net/http"

	"github.com/mechanio/garage/internal/api/middleware"
	"github.com/mechanio/garage/internal/api/response"
	"github.com/mechanio/garage/internal/model"
)

// actorOr401 pulls the authenticated actor off the context, writing a 401
// when it is absent.
func actorOr401(w http.ResponseWriter, r *http.Request) (*model.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.WriteError(w, http.StatusUnauthorized, "no authenticated actor")
		return nil, false
	}
	return actor, true
}
