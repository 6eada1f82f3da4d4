package signatures

import (
	"context"
	"encoding/json"
	"errors"
	"esignserver/internal/models"
	utils "esignserver/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, sigID string, sd SignatureDeleter) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	err := sd.DeleteSignature(ctx, sigID, requester)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("failed to delete signature, permission denied", slog.String("sig_id", sigID))
			utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
			return
		}
		if errors.Is(err, models.ErrSignatureNotFound) {
			log.Warn("signature not found", slog.String("sig_id", sigID))
			utils.WriteJSONError(w, http.StatusNotFound, models.ErrSignatureNotFound.Error())
			return
		}
		log.Error("failed to delete signature", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"response": map[string]any{
			sigID: true,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
