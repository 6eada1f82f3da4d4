package signatures

import (
	"context"
	"encoding/json"
	"esignserver/internal/dto"
	"esignserver/internal/models"
	errutils "esignserver/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, sp SignatureProvider) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	rawSigs, err := sp.ListSignatures(ctx, requester)
	if err != nil {
		log.Error("failed to list signatures", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	dtoSigs := make([]dto.SignatureResponse, 0, len(rawSigs))

	for _, sig := range rawSigs {
		dtoSigs = append(dtoSigs, sigResponse(sig))
	}

	response := map[string]any{
		"data": map[string]any{
			"signatures": dtoSigs,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
