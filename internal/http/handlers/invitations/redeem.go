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

// Redeem consumes an invitation token. The route is public: the token itself
// is the credential.
func Redeem(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, token string, ir InvitationRedeemer) {
	op := pkg + "Redeem"

	log = log.With(slog.String("op", op))

	inv, doc, err := ir.RedeemInvitation(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvitationNotFound):
			log.Warn("invitation not found")
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrInvitationNotFound.Error())
		case errors.Is(err, models.ErrInvitationExpired):
			log.Warn("invitation expired")
			errutils.WriteJSONError(w, http.StatusGone, models.ErrInvitationExpired.Error())
		case errors.Is(err, models.ErrInvitationUsed):
			log.Warn("invitation already used")
			errutils.WriteJSONError(w, http.StatusGone, models.ErrInvitationUsed.Error())
		default:
			log.Error("failed to redeem invitation", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"invitation": invResponse(inv),
			"document": dto.DocumentResponse{
				ID:        doc.ID,
				Title:     doc.Title,
				FileName:  doc.FileName,
				Format:    string(doc.Format),
				PageCount: doc.PageCount,
				Status:    doc.Status,
				CreatedAt: doc.CreatedAt,
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
