package language

import "sync"

// Document holds the document-level attributes a page is rendered with.
type Document struct {
	mu   sync.RWMutex
	lang string
}

// NewDocument returns a document with an empty lang attribute.
func NewDocument() *Document {
	return &Document{}
}

// Lang returns the lang attribute of the root element.
func (d *Document) Lang() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lang
}

// SetLang sets the lang attribute of the root element.
func (d *Document) SetLang(lang string) {
	d.mu.Lock()
	d.lang = lang
	d.mu.Unlock()
}
