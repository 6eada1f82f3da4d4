package signatures

import (
	"context"
	"encoding/json"
	"errors"
	"esignserver/internal/dto"
	"esignserver/internal/models"
	errutils "esignserver/internal/utils/http_errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"
)

const maxUploadSize = 10 << 20

// Add creates a signature. A JSON body carries a drawn signature as a base64
// data URL, a multipart body carries an uploaded image file.
func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, sc SignatureCreator) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var (
		sig *models.Signature
		err error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			log.Error("failed to parse multipart form", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusBadRequest, "failed to parse multipart form")
			return
		}

		file, _, ferr := r.FormFile("file")
		if ferr != nil {
			log.Warn("missing file part", slog.String("error", ferr.Error()))
			errutils.WriteJSONError(w, http.StatusBadRequest, "file part is required")
			return
		}
		defer file.Close()

		sig, err = sc.CreateUploaded(ctx, requester, file)
	} else {
		var req dto.CreateSignatureRequest

		if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil {
			log.Warn("failed to decode body", slog.String("error", derr.Error()))
			errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		defer r.Body.Close()

		if req.Kind != "" && req.Kind != models.SignatureDrawn {
			log.Warn("unexpected signature kind in json body", slog.String("kind", req.Kind))
			errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}

		sig, err = sc.CreateDrawn(ctx, requester, req.Data)
	}

	if err != nil {
		if errors.Is(err, models.ErrInvalidParams) {
			log.Warn("invalid signature image")
			errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		log.Error("failed to create signature", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"data": sigResponse(sig),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func sigResponse(sig *models.Signature) dto.SignatureResponse {
	return dto.SignatureResponse{
		ID:        sig.ID,
		Kind:      sig.Kind,
		CreatedAt: sig.CreatedAt,
	}
}
