// Package template resolves, loads and renders DOCX letter templates.
//
// Templates live in a read-only store laid out as <language>/<doc_type>.docx.
// Placeholders are written as {{ name }}; names may contain spaces and any
// script, so Hebrew templates can use their authored field names directly.
package template

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	"letterapi/internal/apperr"
)

// Ext is the file extension of every template in the store.
const Ext = ".docx"

// Resolver maps (language, document type) to a template path in the store.
type Resolver struct {
	store fs.FS
}

// NewResolver creates a Resolver over the given template store.
func NewResolver(store fs.FS) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the store-relative template path for language and docType.
// It fails with a TemplateNotFound error if the file does not exist, so callers
// can abort before any rendering work.
func (r *Resolver) Resolve(language, docType string) (string, error) {
	p := path.Join(language, docType+Ext)
	if !validSegment(language) || !validSegment(docType) || !fs.ValidPath(p) {
		return "", apperr.TemplateNotFound(p)
	}

	info, err := fs.Stat(r.store, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.TemplateNotFound(p)
		}
		return "", &apperr.Error{Kind: apperr.KindTemplateNotFound, Message: "template not found: " + p, Err: err}
	}
	if info.IsDir() {
		return "", apperr.TemplateNotFound(p)
	}
	return p, nil
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
