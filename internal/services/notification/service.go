package notificationservice

import (
	"bytes"
	"context"
	"esignserver/internal/models"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "notificationService/"

const sendTimeout = 30 * time.Second

// Dispatcher sends event mail in the background. Callers never wait on SMTP
// and never see delivery errors; every attempt is written to the delivery
// log instead so failed sends can be found later.
type Dispatcher struct {
	log         *slog.Logger
	sender      EmailSender
	recorder    DeliveryStore
	admins      AdminEmailProvider
	extraAdmins []string
}

func New(
	log *slog.Logger,
	sender EmailSender,
	recorder DeliveryStore,
	admins AdminEmailProvider,
	extraAdmins []string,
) *Dispatcher {
	return &Dispatcher{
		log:         log,
		sender:      sender,
		recorder:    recorder,
		admins:      admins,
		extraAdmins: extraAdmins,
	}
}

func (d *Dispatcher) DocumentUploaded(user *models.User, doc *models.Document) {
	subject := fmt.Sprintf("Document uploaded: %s", doc.Title)

	d.toAdmins(KindDocumentUploaded, subject, documentUploadedTmpl, map[string]any{
		"User": user,
		"Doc":  doc,
	})
}

func (d *Dispatcher) DocumentSigned(user *models.User, doc *models.Document, signed *models.SignedDocument) {
	subject := fmt.Sprintf("Document signed: %s", doc.Title)

	d.toAdmins(KindDocumentSigned, subject, documentSignedTmpl, map[string]any{
		"User":   user,
		"Doc":    doc,
		"Signed": signed,
	})
}

func (d *Dispatcher) SignatureCreated(user *models.User, sig *models.Signature) {
	subject := fmt.Sprintf("Signature created by %s", user.Login)

	d.toAdmins(KindSignatureCreated, subject, signatureCreatedTmpl, map[string]any{
		"User": user,
		"Sig":  sig,
	})
}

func (d *Dispatcher) InvitationCreated(inv *models.DocumentInvitation, doc *models.Document, signURL string) {
	subject := fmt.Sprintf("Invitation to sign: %s", doc.Title)

	body, err := render(invitationCreatedTmpl, map[string]any{
		"Inv":     inv,
		"Doc":     doc,
		"SignURL": signURL,
	})
	if err != nil {
		d.log.Error("failed to render invitation mail", slog.String("error", err.Error()))
		return
	}

	go d.deliver(KindInvitationCreated, []string{inv.RecipientEmail}, subject, body)
}

// toAdmins renders the template and mails it to every admin account plus the
// statically configured addresses.
func (d *Dispatcher) toAdmins(kind string, subject string, tmpl *template.Template, data map[string]any) {
	body, err := render(tmpl, data)
	if err != nil {
		d.log.Error("failed to render notification mail", slog.String("kind", kind), slog.String("error", err.Error()))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		recipients, err := d.admins.AdminEmails(ctx)
		if err != nil {
			d.log.Error("failed to resolve admin emails", slog.String("error", err.Error()))
		}

		recipients = mergeRecipients(recipients, d.extraAdmins)
		if len(recipients) == 0 {
			d.log.Debug("no admin recipients configured, skipping notification", slog.String("kind", kind))
			return
		}

		d.deliver(kind, recipients, subject, body)
	}()
}

// deliver performs the SMTP send and records the outcome. It runs off the
// request path and must not panic or block its caller.
func (d *Dispatcher) deliver(kind string, to []string, subject string, body string) {
	op := pkg + "deliver"

	log := d.log.With(slog.String("op", op), slog.String("kind", kind))

	status := models.EmailStatusSent
	sendErr := ""

	if err := d.sender.Send(to, subject, body); err != nil {
		status = models.EmailStatusFailed
		sendErr = err.Error()
		log.Error("failed to send notification", slog.String("error", err.Error()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	for _, recipient := range to {
		rec := &models.EmailLog{
			ID:        uuid.NewV4().String(),
			Kind:      kind,
			Recipient: recipient,
			Subject:   subject,
			Status:    status,
			Error:     sendErr,
			CreatedAt: time.Now(),
		}

		if err := d.recorder.RecordDelivery(ctx, rec); err != nil {
			log.Error("failed to record delivery", slog.String("error", err.Error()))
		}
	}

	if status == models.EmailStatusSent {
		log.Debug("notification sent", slog.Int("recipients", len(to)))
	}
}

// ListFailedDeliveries returns the most recent failed sends, newest first.
// A limit of zero or less falls back to a sane default.
func (d *Dispatcher) ListFailedDeliveries(ctx context.Context, limit int) ([]*models.EmailLog, error) {
	op := pkg + "ListFailedDeliveries"

	log := d.log.With(slog.String("op", op))

	if limit <= 0 {
		limit = 50
	}

	recs, err := d.recorder.ListFailed(ctx, limit)
	if err != nil {
		log.Error("failed to list failed deliveries", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return recs, nil
}

func render(tmpl *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func mergeRecipients(a []string, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))

	for _, addr := range append(append([]string{}, a...), b...) {
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}

	return out
}
