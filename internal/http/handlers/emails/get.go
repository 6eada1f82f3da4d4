package emails

import (
	"context"
	"encoding/json"
	"esignserver/internal/dto"
	"esignserver/internal/models"
	errutils "esignserver/internal/utils/http_errors"
	parseutil "esignserver/internal/utils/parseLimit"
	"log/slog"
	"net/http"
)

// Get lists failed mail deliveries. Admin only, gated by the router.
func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, fp FailedDeliveryProvider) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	limit := parseutil.ParseLimit(r.URL.Query().Get("limit"))

	rawRecs, err := fp.ListFailedDeliveries(ctx, limit)
	if err != nil {
		log.Error("failed to list failed deliveries", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	dtoRecs := make([]dto.EmailLogResponse, 0, len(rawRecs))

	for _, rec := range rawRecs {
		dtoRecs = append(dtoRecs, dto.EmailLogResponse{
			ID:        rec.ID,
			Kind:      rec.Kind,
			Recipient: rec.Recipient,
			Subject:   rec.Subject,
			Status:    rec.Status,
			Error:     rec.Error,
			CreatedAt: rec.CreatedAt,
		})
	}

	response := map[string]any{
		"data": map[string]any{
			"emails": dtoRecs,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
