package documentservice

import (
	"context"
	"encoding/json"
	"errors"
	"esignserver/internal/models"
	"fmt"
	"io"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "documentService/"

type DocumentService struct {
	log         *slog.Logger
	docRepo     DocumentRepository
	cache       Cache
	fileStorage FileStorage
	prober      Prober
	notifier    Notifier
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	cache Cache,
	fileStorage FileStorage,
	prober Prober,
	notifier Notifier,
) *DocumentService {
	return &DocumentService{
		log:         log,
		docRepo:     docRepo,
		cache:       cache,
		fileStorage: fileStorage,
		prober:      prober,
		notifier:    notifier,
	}
}

// UploadDocument stores the file, probes it for format and page count and
// records the metadata. A file that cannot be parsed is removed again so
// storage never holds content without a matching record.
func (ds *DocumentService) UploadDocument(ctx context.Context, requester *models.User, title string, fileName string, content io.Reader) (*models.Document, error) {
	op := pkg + "UploadDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to upload document", slog.String("file_name", fileName))

	format, err := models.FormatFromFilename(fileName)
	if err != nil {
		log.Warn("unsupported document format", slog.String("file_name", fileName))
		return nil, models.ErrUnsupportedFormat
	}

	if title == "" {
		title = fileName
	}

	doc := &models.Document{
		ID:        uuid.NewV4().String(),
		OwnerID:   requester.ID,
		Title:     title,
		FileName:  fileName,
		Format:    format,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	doc.Path = fmt.Sprintf("documents/%s.%s", doc.ID, format)

	if err := ds.fileStorage.Save(doc.Path, content); err != nil {
		log.Error("failed to save file", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	abs, err := ds.fileStorage.Abs(doc.Path)
	if err != nil {
		_ = ds.fileStorage.Remove(doc.Path)
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	info, err := ds.prober.Probe(abs)
	if err != nil {
		log.Warn("failed to probe document", slog.String("error", err.Error()))
		_ = ds.fileStorage.Remove(doc.Path)

		if errors.Is(err, models.ErrUnsupportedFormat) {
			return nil, models.ErrUnsupportedFormat
		}

		return nil, models.ErrProcessing
	}

	doc.PageCount = info.PageCount

	if err := ds.docRepo.CreateDocument(ctx, doc); err != nil {
		log.Error("failed to save document metadata", slog.String("error", err.Error()))
		_ = ds.fileStorage.Remove(doc.Path)
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ds.cache.Del(ctx, fmt.Sprintf("docs:%s", requester.ID)); err != nil {
		log.Error("failed to invalidate owner cache", slog.String("error", err.Error()))
	}

	ds.notifier.DocumentUploaded(requester, doc)

	log.Debug("document uploaded successfully", slog.String("doc_id", doc.ID), slog.String("owner_id", doc.OwnerID))

	return doc, nil
}

func (ds *DocumentService) DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error) {
	op := pkg + "DocumentByID"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to get document by id", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}

	if !hasReadAccess(doc, requester) {
		log.Warn("user doesn't have access for document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return nil, nil, models.ErrForbidden
	}

	file, err := ds.fileStorage.Open(doc.Path)
	if err != nil {
		log.Error("failed to load file from storage", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	log.Debug("document with content found successfully", slog.String("doc_id", docID))

	return doc, file, nil
}

// DocumentMeta returns the metadata only, with the same access check as
// DocumentByID. Used by the signing flow which reads the file itself.
func (ds *DocumentService) DocumentMeta(ctx context.Context, docID string, requester *models.User) (*models.Document, error) {
	op := pkg + "DocumentMeta"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if !hasReadAccess(doc, requester) {
		log.Warn("user doesn't have access for document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	return doc, nil
}

func (ds *DocumentService) ListDocuments(ctx context.Context, requester *models.User) ([]*models.Document, error) {
	op := pkg + "ListDocuments"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to list documents", slog.String("requester_id", requester.ID))

	var docs []*models.Document

	cacheKey := fmt.Sprintf("docs:%s", requester.ID)

	docsJSON, err := ds.cache.Get(ctx, cacheKey)
	if err != nil || docsJSON == "" {
		log.Debug("failed to get docs from cache")

		docs, err = ds.docRepo.ListByOwner(ctx, requester.ID)
		if err != nil {
			log.Error("failed to list documents", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		docsJSON, err = docsToJSON(docs)
		if err != nil {
			log.Error("failed to convert docs to json", slog.String("error", err.Error()))
		} else {
			err = ds.cache.Set(ctx, cacheKey, docsJSON)
			if err != nil {
				log.Error("failed to set docs in cache", slog.String("error", err.Error()))
			}
		}

		return docs, nil
	}

	docs, err = jsonToDocs(docsJSON)
	if err != nil {
		log.Error("failed to parse json to docs", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	log.Debug("documents listed successfully",
		slog.Int("count", len(docs)),
		slog.String("requester_id", requester.ID))

	return docs, nil
}

func (ds *DocumentService) DeleteDocument(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "DeleteDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to delete document", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		log.Warn("failed to get document by id", slog.String("error", err.Error()))
		return err
	}

	if !hasDeleteAccess(doc, requester) {
		log.Warn("user doesn't have access for delete operation", slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return models.ErrForbidden
	}

	if err := ds.docRepo.Delete(ctx, docID); err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("failed to delete document meta", slog.String("error", models.ErrDocumentNotFound.Error()))
		} else {
			log.Error("failed to delete document meta", slog.String("error", err.Error()))
			return models.ErrInternal
		}
	}

	err = ds.cache.Del(ctx, doc.ID, fmt.Sprintf("docs:%s", doc.OwnerID))
	if err != nil {
		log.Error("failed to delete doc from cache", slog.String("error", err.Error()))
	}

	if err := ds.fileStorage.Remove(doc.Path); err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("failed to delete document from file storage", slog.String("error", models.ErrDocumentNotFound.Error()))
			return models.ErrDocumentNotFound
		}
		log.Error("failed to delete document content", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	log.Debug("document with content deleted successfully", slog.String("doc_id", docID), slog.String("user_id", requester.ID))

	return nil
}

// MarkSigned flips the document status once a signed copy exists.
func (ds *DocumentService) MarkSigned(ctx context.Context, docID string) error {
	op := pkg + "MarkSigned"

	log := ds.log.With(slog.String("op", op))

	if err := ds.docRepo.SetStatus(ctx, docID, models.StatusSigned); err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return models.ErrDocumentNotFound
		}
		log.Error("failed to set document status", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if err := ds.cache.Del(ctx, docID); err != nil {
		log.Error("failed to invalidate doc cache", slog.String("error", err.Error()))
	}

	return nil
}

func (ds *DocumentService) documentMetaByID(ctx context.Context, docID string) (*models.Document, error) {
	op := pkg + "documentMetaByID"

	log := ds.log.With(slog.String("op", op))

	var doc *models.Document

	docJSON, err := ds.cache.Get(ctx, docID)
	if err != nil || docJSON == "" {
		log.Debug("failed to get doc in cache by id", slog.String("doc_id", docID))

		doc, err = ds.docRepo.DocumentByID(ctx, docID)
		if err != nil {
			if errors.Is(err, models.ErrDocumentNotFound) {
				log.Warn("document not found", slog.String("doc_id", docID))
				return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
			}
			log.Error("failed to get document by id", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		docJSON, err := docToJSON(doc)
		if err != nil {
			log.Error("failed to parse doc to json", slog.String("error", err.Error()))
		} else {
			err = ds.cache.Set(ctx, docID, docJSON)
			if err != nil {
				log.Warn("failed to set doc to cache", slog.String("error", err.Error()))
			}
		}

		return doc, nil
	}

	doc, err = jsonToDoc(docJSON)
	if err != nil {
		log.Error("failed to parse json to doc", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return doc, nil
}

func jsonToDocs(s string) ([]*models.Document, error) {
	if len(s) == 0 {
		return nil, errors.New("empty json string")
	}
	var docs []*models.Document

	if err := json.Unmarshal([]byte(s), &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

func docsToJSON(docs []*models.Document) (string, error) {
	res, err := json.Marshal(docs)
	if err != nil {
		return "", err
	}

	return string(res), nil
}

func docToJSON(doc *models.Document) (string, error) {
	jsonSlice, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	return string(jsonSlice), nil
}

func jsonToDoc(s string) (*models.Document, error) {
	if len(s) == 0 {
		return nil, errors.New("empty json string")
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

func hasReadAccess(doc *models.Document, requester *models.User) bool {
	return doc.OwnerID == requester.ID || requester.IsAdmin
}

func hasDeleteAccess(doc *models.Document, requester *models.User) bool {
	return doc.OwnerID == requester.ID || requester.IsAdmin
}
