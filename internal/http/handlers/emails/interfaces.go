package emails

import (
	"context"
	"esignserver/internal/models"
)

const pkg = "emailsHandler/"

type FailedDeliveryProvider interface {
	ListFailedDeliveries(ctx context.Context, limit int) ([]*models.EmailLog, error)
}
