package notificationservice

import "text/template"

// Notification kinds, stored with every delivery record.
const (
	KindDocumentUploaded  = "document_uploaded"
	KindDocumentSigned    = "document_signed"
	KindSignatureCreated  = "signature_created"
	KindInvitationCreated = "invitation_created"
)

var (
	documentUploadedTmpl = template.Must(template.New(KindDocumentUploaded).Parse(
		`A new document was uploaded.

Title:  {{.Doc.Title}}
File:   {{.Doc.FileName}}
Pages:  {{.Doc.PageCount}}
By:     {{.User.Login}}
`))

	documentSignedTmpl = template.Must(template.New(KindDocumentSigned).Parse(
		`A document was signed.

Title:  {{.Doc.Title}}
Page:   {{.Signed.Page}}
By:     {{.User.Login}}
`))

	signatureCreatedTmpl = template.Must(template.New(KindSignatureCreated).Parse(
		`A new signature image was saved.

Kind:   {{.Sig.Kind}}
By:     {{.User.Login}}
`))

	invitationCreatedTmpl = template.Must(template.New(KindInvitationCreated).Parse(
		`Hello{{if .Inv.RecipientName}} {{.Inv.RecipientName}}{{end}},

You have been invited to sign the document "{{.Doc.Title}}".

Follow this link to open it:

    {{.SignURL}}

The link can be used once and expires on {{.Inv.ExpiresAt.Format "02 Jan 2006 15:04 MST"}}.
`))
)
