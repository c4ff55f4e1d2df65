package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

// Every email template defines three named sections: subject, plainBody and
// htmlBody.
const (
	sectionSubject   = "subject"
	sectionPlainBody = "plainBody"
	sectionHTMLBody  = "htmlBody"
)

func NewTemplate() *Template {
	return &Template{}
}

// ParseTemplate renders the three sections of the named template against data
// and returns them as subject, plain body and HTML body.
func (tp *Template) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	var subject, plainBody, htmlBody bytes.Buffer

	if err := tmpl.ExecuteTemplate(&subject, sectionSubject, data); err != nil {
		return nil, nil, nil, err
	}
	if err := tmpl.ExecuteTemplate(&plainBody, sectionPlainBody, data); err != nil {
		return nil, nil, nil, err
	}
	if err := tmpl.ExecuteTemplate(&htmlBody, sectionHTMLBody, data); err != nil {
		return nil, nil, nil, err
	}

	return &subject, &plainBody, &htmlBody, nil
}
