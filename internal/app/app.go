package app

import (
	"context"
	"esignserver/internal/cache/redis"
	"esignserver/internal/config"
	"esignserver/internal/dbs/postgres"
	"esignserver/internal/email"
	"esignserver/internal/engine"
	cachedocsrepo "esignserver/internal/repositories/cache/docs"
	cachesessionrepo "esignserver/internal/repositories/cache/session"
	documentrepo "esignserver/internal/repositories/db/document"
	emaillogrepo "esignserver/internal/repositories/db/emaillog"
	invitationrepo "esignserver/internal/repositories/db/invitation"
	signaturerepo "esignserver/internal/repositories/db/signature"
	signeddocrepo "esignserver/internal/repositories/db/signeddoc"
	userrepo "esignserver/internal/repositories/db/user"
	filerepo "esignserver/internal/repositories/storage/file"
	authservice "esignserver/internal/services/auth"
	cleanupservice "esignserver/internal/services/cleanup"
	documentservice "esignserver/internal/services/document"
	invitationservice "esignserver/internal/services/invitation"
	notificationservice "esignserver/internal/services/notification"
	signatureservice "esignserver/internal/services/signature"
	signingservice "esignserver/internal/services/signing"
	userservice "esignserver/internal/services/user"
	"fmt"
	"log/slog"
)

type App struct {
	AuthService         AuthService
	UserService         UserService
	DocumentService     DocumentService
	SignatureService    SignatureService
	SigningService      SigningService
	InvitationService   InvitationService
	NotificationService NotificationService
	CleanupService      CleanupService
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cfg.Cache.Addr, Password: cfg.Cache.Password, DB: cfg.Cache.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	userRepo := userrepo.NewRepository(db)
	docRepo := documentrepo.NewRepository(db)
	sigRepo := signaturerepo.NewRepository(db)
	signedRepo := signeddocrepo.NewRepository(db)
	invRepo := invitationrepo.NewRepository(db)
	emailLogRepo := emaillogrepo.NewRepository(db)

	sessionCacheRepo := cachesessionrepo.New(cache, cfg.Cache.SessionTTL)
	documentCacheRepo := cachedocsrepo.New(cache, cfg.Cache.DocumentsTTL)

	fileStorage := filerepo.NewRepository(cfg.FileStorage.Path)

	userService := userservice.New(log, userRepo, userRepo)

	authService := authservice.New(log, userService, userService, sessionCacheRepo, cfg.AdminToken)

	sender := email.New(cfg.SMTP)

	notifier := notificationservice.New(log, sender, emailLogRepo, userService, cfg.SMTP.AdminEmails)

	eng := engine.New(log)

	documentService := documentservice.New(log, docRepo, documentCacheRepo, fileStorage, eng, notifier)

	signatureService := signatureservice.New(log, sigRepo, fileStorage, notifier)

	signingService := signingservice.New(log, documentService, signatureService, signedRepo, eng, fileStorage, notifier)

	invitationService := invitationservice.New(log, invRepo, docRepo, notifier, cfg.Invites.TTL, cfg.Invites.BaseURL)

	cleanupService := cleanupservice.New(log, fileStorage, docRepo, sigRepo, signedRepo)

	return &App{
		AuthService:         authService,
		UserService:         userService,
		DocumentService:     documentService,
		SignatureService:    signatureService,
		SigningService:      signingService,
		InvitationService:   invitationService,
		NotificationService: notifier,
		CleanupService:      cleanupService,
	}, nil
}
