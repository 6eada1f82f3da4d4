package sign

import (
	"context"
	"encoding/json"
	"errors"
	"esignserver/internal/dto"
	"esignserver/internal/models"
	errutils "esignserver/internal/utils/http_errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// GetByID streams a signed copy back to the caller.
func GetByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, signedID string, sp SignedDocProvider) {
	op := pkg + "GetByID"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	signed, doc, file, err := sp.SignedDocumentByID(ctx, signedID, requester)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("failed to get signed document, permission denied", slog.String("signed_id", signedID))
			errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
			return
		}
		if errors.Is(err, models.ErrSignedDocNotFound) || errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("signed document not found", slog.String("signed_id", signedID))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrSignedDocNotFound.Error())
			return
		}
		log.Error("failed to get signed document", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}
	defer file.Close()

	name := fmt.Sprintf("signed_%s", doc.FileName)

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Type", doc.Format.Mime())
	w.Header().Set("Last-Modified", signed.CreatedAt.UTC().Format(http.TimeFormat))
	if _, err := io.Copy(w, file); err != nil {
		log.Error("failed to write file response", slog.String("error", err.Error()))
	}
}

// Get lists the signed copies of one document.
func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, sp SignedDocProvider) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	rawSigned, err := sp.ListSignedDocuments(ctx, docID, requester)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("failed to list signed documents, permission denied", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
			return
		}
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
			return
		}
		log.Error("failed to list signed documents", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	dtoSigned := make([]dto.SignedDocumentResponse, 0, len(rawSigned))

	for _, signed := range rawSigned {
		dtoSigned = append(dtoSigned, signedResponse(signed))
	}

	response := map[string]any{
		"data": map[string]any{
			"signed": dtoSigned,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
