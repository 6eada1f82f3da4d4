package invitations

import (
	"context"
	"encoding/json"
	"errors"
	"esignserver/internal/dto"
	"esignserver/internal/models"
	errutils "esignserver/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, ip InvitationProvider) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	rawInvs, err := ip.ListInvitations(ctx, requester, docID)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("failed to list invitations, permission denied", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
			return
		}
		log.Error("failed to list invitations", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	dtoInvs := make([]dto.InvitationResponse, 0, len(rawInvs))

	for _, inv := range rawInvs {
		dtoInvs = append(dtoInvs, invResponse(inv))
	}

	response := map[string]any{
		"data": map[string]any{
			"invitations": dtoInvs,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
