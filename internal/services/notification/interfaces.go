package notificationservice

import (
	"context"
	"esignserver/internal/models"
)

type EmailSender interface {
	Send(to []string, subject string, body string) error
}

type DeliveryStore interface {
	RecordDelivery(ctx context.Context, rec *models.EmailLog) error
	ListFailed(ctx context.Context, limit int) ([]*models.EmailLog, error)
}

type AdminEmailProvider interface {
	AdminEmails(ctx context.Context) ([]string, error)
}
