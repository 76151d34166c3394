package notifier

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/yuin/goldmark"
)

// Mail bodies are written in Markdown and rendered to HTML.
var (
	certificateTemplate = template.Must(template.New("certificate").Parse(`Hello **{{.Name}}**,

Thank you for attending *{{.Subject}}*. Your attendance has been confirmed and
your certificate is being issued.

Credential ID: ` + "`{{.CredentialID}}`" + `
`))

	noCertificateTemplate = template.Must(template.New("no_certificate").Parse(`Hello **{{.Name}}**,

Thank you for attending *{{.Subject}}*. Unfortunately your recorded presence did
not reach the minimum required for a certificate.
`))
)

type mailData struct {
	Name         string
	Subject      string
	CredentialID string
}

func render(md goldmark.Markdown, tmpl *template.Template, data mailData) (string, error) {
	var source bytes.Buffer
	if err := tmpl.Execute(&source, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", tmpl.Name(), err)
	}

	var out bytes.Buffer
	if err := md.Convert(source.Bytes(), &out); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return out.String(), nil
}
