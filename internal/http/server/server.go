package server

import (
	"context"
	"errors"
	"esignserver/internal/config"
	"esignserver/internal/http/handlers/docs"
	"esignserver/internal/http/handlers/emails"
	"esignserver/internal/http/handlers/invitations"
	"esignserver/internal/http/handlers/session"
	"esignserver/internal/http/handlers/sign"
	"esignserver/internal/http/handlers/signatures"
	"esignserver/internal/http/handlers/user"
	"esignserver/internal/http/middleware"
	"esignserver/internal/models"
	utils "esignserver/internal/utils/http_errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func StartServer(
	ctx context.Context,
	cfg *config.HTTPServer,
	log *slog.Logger,
	authService AuthService,
	documentService DocumentService,
	signatureService SignatureService,
	signingService SigningService,
	invitationService InvitationService,
	notificationService NotificationService,
	sessionStorer SessionStorer,
) error {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))

	setupRoutes(r, log, authService, documentService, signatureService, signingService, invitationService, notificationService, sessionStorer)

	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      r,
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func setupRoutes(
	r *mux.Router,
	log *slog.Logger,
	auth AuthService,
	doc DocumentService,
	sig SignatureService,
	signing SigningService,
	inv InvitationService,
	notif NotificationService,
	sessionStorer SessionStorer,
) {
	// POST user
	r.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user.Add(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// POST session
	r.HandleFunc("/api/auth", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session.Add(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// DELETE session
	r.HandleFunc("/api/auth/{token}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		token := vars["token"]
		session.Delete(ctx, log, w, r, token, auth)
	}).Methods(http.MethodDelete)

	// GET invitation redemption, reachable without a session
	r.HandleFunc("/api/invitations/{token}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		token := vars["token"]
		invitations.Redeem(ctx, log, w, r, token, inv)
	}).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Auth(log, sessionStorer))

	// POST doc
	protected.HandleFunc("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docs.Upload(ctx, log, w, r, doc)
	}).Methods(http.MethodPost)

	// GET docs
	protected.HandleFunc("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docs.Get(ctx, log, w, r, doc)
	}).Methods(http.MethodGet)

	// GET doc by id
	protected.HandleFunc("/api/docs/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.GetByID(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodGet)

	// DELETE doc by id
	protected.HandleFunc("/api/docs/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Delete(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodDelete)

	// POST signature
	protected.HandleFunc("/api/signatures", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		signatures.Add(ctx, log, w, r, sig)
	}).Methods(http.MethodPost)

	// GET signatures
	protected.HandleFunc("/api/signatures", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		signatures.Get(ctx, log, w, r, sig)
	}).Methods(http.MethodGet)

	// DELETE signature by id
	protected.HandleFunc("/api/signatures/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		sigID := vars["id"]
		signatures.Delete(ctx, log, w, r, sigID, sig)
	}).Methods(http.MethodDelete)

	// POST sign doc
	protected.HandleFunc("/api/docs/{id}/sign", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		sign.Add(ctx, log, w, r, docID, signing)
	}).Methods(http.MethodPost)

	// GET signed copies of doc
	protected.HandleFunc("/api/docs/{id}/signed", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		sign.Get(ctx, log, w, r, docID, signing)
	}).Methods(http.MethodGet)

	// GET signed copy by id
	protected.HandleFunc("/api/signed/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		signedID := vars["id"]
		sign.GetByID(ctx, log, w, r, signedID, signing)
	}).Methods(http.MethodGet)

	admin := protected.NewRoute().Subrouter()

	admin.Use(middleware.Admin(log))

	// POST invitation
	admin.HandleFunc("/api/docs/{id}/invitations", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		invitations.Add(ctx, log, w, r, docID, inv)
	}).Methods(http.MethodPost)

	// GET invitations of doc
	admin.HandleFunc("/api/docs/{id}/invitations", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		invitations.Get(ctx, log, w, r, docID, inv)
	}).Methods(http.MethodGet)

	// GET failed mail deliveries
	admin.HandleFunc("/api/emails/failed", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		emails.Get(ctx, log, w, r, notif)
	}).Methods(http.MethodGet)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})
}
