package sign

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

func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, signer Signer) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var req dto.SignRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode body", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}
	defer r.Body.Close()

	placements := make([]models.SignaturePlacement, 0, len(req.Signatures)+1)
	for _, p := range req.Signatures {
		placements = append(placements, models.SignaturePlacement{
			SignatureID: p.SignatureID,
			Page:        p.Page,
			X:           p.X,
			Y:           p.Y,
		})
	}
	if len(placements) == 0 {
		placements = append(placements, models.SignaturePlacement{
			SignatureID: req.SignatureID,
			Page:        req.Page,
			X:           req.X,
			Y:           req.Y,
		})
	}

	signed, err := signer.Sign(ctx, requester, docID, placements)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			log.Warn("failed to sign document, permission denied", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		case errors.Is(err, models.ErrDocumentNotFound):
			log.Warn("document not found", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
		case errors.Is(err, models.ErrSignatureNotFound):
			log.Warn("signature not found", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrSignatureNotFound.Error())
		case errors.Is(err, models.ErrPageOutOfRange):
			log.Warn("page out of range", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrPageOutOfRange.Error())
		case errors.Is(err, models.ErrInvalidParams):
			log.Warn("invalid signature position")
			errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		case errors.Is(err, models.ErrProcessing):
			log.Error("failed to render signed document", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusUnprocessableEntity, models.ErrProcessing.Error())
		default:
			log.Error("failed to sign document", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}

	response := map[string]any{
		"data": signedResponse(signed),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func signedResponse(signed *models.SignedDocument) dto.SignedDocumentResponse {
	return dto.SignedDocumentResponse{
		ID:          signed.ID,
		DocumentID:  signed.DocumentID,
		SignatureID: signed.SignatureID,
		Page:        signed.Page,
		X:           signed.PosX,
		Y:           signed.PosY,
		CreatedAt:   signed.CreatedAt,
	}
}
