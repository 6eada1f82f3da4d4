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

func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, ic InvitationCreator) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var req dto.CreateInvitationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}
	defer r.Body.Close()

	inv, err := ic.CreateInvitation(ctx, requester, docID, req.RecipientEmail, req.RecipientName)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			log.Warn("failed to create invitation, permission denied", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		case errors.Is(err, models.ErrDocumentNotFound):
			log.Warn("document not found", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
		case errors.Is(err, models.ErrInvalidParams):
			log.Warn("invalid invitation request")
			errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		default:
			log.Error("failed to create invitation", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}

	response := map[string]any{
		"data": invResponse(inv),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func invResponse(inv *models.DocumentInvitation) dto.InvitationResponse {
	return dto.InvitationResponse{
		ID:             inv.ID,
		DocumentID:     inv.DocumentID,
		RecipientEmail: inv.RecipientEmail,
		Token:          inv.Token,
		ExpiresAt:      inv.ExpiresAt,
	}
}
