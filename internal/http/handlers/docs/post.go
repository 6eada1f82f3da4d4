package docs

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

const maxUploadSize = 50 << 20

func Upload(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, du DocumentUploader) {
	op := pkg + "Upload"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn("missing file part", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	title := r.FormValue("title")

	doc, err := du.UploadDocument(ctx, requester, title, header.Filename, file)
	if err != nil {
		if errors.Is(err, models.ErrUnsupportedFormat) {
			log.Warn("unsupported document format", slog.String("file_name", header.Filename))
			errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrUnsupportedFormat.Error())
			return
		}
		if errors.Is(err, models.ErrProcessing) {
			log.Warn("failed to parse document", slog.String("file_name", header.Filename))
			errutils.WriteJSONError(w, http.StatusUnprocessableEntity, models.ErrProcessing.Error())
			return
		}
		log.Error("failed to upload document", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"data": docResponse(doc),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func docResponse(doc *models.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		FileName:  doc.FileName,
		Format:    string(doc.Format),
		PageCount: doc.PageCount,
		Status:    doc.Status,
		CreatedAt: doc.CreatedAt,
	}
}
