package language

import (
	"log/slog"
	"sync"

	"github.com/patagonia-pages/bookpage/internal/errors"
	"github.com/patagonia-pages/bookpage/internal/i18n"
	"github.com/patagonia-pages/bookpage/pkg/pref"
)

// StorageKey is the persisted preference key.
const StorageKey = "language"

// Source records how the initial language was chosen.
type Source string

const (
	SourceStored   Source = "stored"
	SourceDetected Source = "detected"
)

// State is the snapshot delivered to subscribers.
type State struct {
	Language i18n.Language
	Catalog  *i18n.Catalog
}

// Value is what Use returns to components.
type Value struct {
	Language    i18n.Language
	SetLanguage func(i18n.Language) error
	T           *i18n.Catalog
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// Provider holds the active language and fans out changes.
type Provider struct {
	table  *i18n.Table
	pref   *pref.Pref[i18n.Language]
	doc    *Document
	source Source
	logger *slog.Logger

	// setMu serializes changes so the pref and the document agree.
	setMu sync.Mutex
	seq   uint64

	mu      sync.Mutex
	subs    map[uint64]func(State)
	nextSub uint64

	notifyMu  sync.Mutex
	delivered uint64
}

func codec() pref.Codec[i18n.Language] {
	return pref.Codec[i18n.Language]{
		Encode: i18n.Language.String,
		Decode: i18n.Parse,
	}
}

// NewProvider creates a provider. The persisted value in storage wins;
// otherwise the language is detected from localeSignal. doc receives the
// initial lang attribute; a nil doc gets a fresh Document.
func NewProvider(table *i18n.Table, storage pref.Storage, localeSignal string, doc *Document, opts ...Option) *Provider {
	if doc == nil {
		doc = NewDocument()
	}
	p := &Provider{
		table:  table,
		doc:    doc,
		logger: slog.Default(),
		subs:   make(map[uint64]func(State)),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.pref = pref.New(StorageKey, i18n.DefaultLanguage)
	p.source = SourceStored
	if !p.pref.Bind(storage, codec()) {
		p.source = SourceDetected
		detected := i18n.Detect(localeSignal)
		// Detection is not persisted; only an explicit choice is.
		p.pref = pref.New(StorageKey, detected)
		p.pref.Bind(storage, codec())
	}

	p.doc.SetLang(p.pref.Get().String())
	return p
}

// Language returns the active language.
func (p *Provider) Language() i18n.Language {
	return p.pref.Get()
}

// Catalog returns the catalog of the active language.
func (p *Provider) Catalog() *i18n.Catalog {
	return p.table.Catalog(p.Language())
}

// Source reports how the initial language was chosen.
func (p *Provider) Source() Source {
	return p.source
}

// Document returns the document the provider keeps in sync.
func (p *Provider) Document() *Document {
	return p.doc
}

// Value returns the accessor handed to components.
func (p *Provider) Value() Value {
	lang := p.Language()
	return Value{
		Language:    lang,
		SetLanguage: p.SetLanguage,
		T:           p.table.Catalog(lang),
	}
}

// SetLanguage replaces the active language, persists it, updates the
// document lang attribute and notifies subscribers. Setting the current
// language again is a no-op.
func (p *Provider) SetLanguage(lang i18n.Language) error {
	if _, ok := i18n.Parse(lang.String()); !ok {
		return errors.New("E002").
			WithDetailf("language %q", lang).
			WithSuggestion("Use one of: en, es")
	}

	p.setMu.Lock()
	seq, changed := p.applyLocked(lang)
	p.setMu.Unlock()

	if changed {
		p.notify(seq, State{Language: lang, Catalog: p.table.Catalog(lang)})
	}
	return nil
}

// Toggle switches between English and Spanish and returns the new language.
func (p *Provider) Toggle() i18n.Language {
	p.setMu.Lock()
	next := p.pref.Get().Other()
	seq, _ := p.applyLocked(next)
	p.setMu.Unlock()

	p.notify(seq, State{Language: next, Catalog: p.table.Catalog(next)})
	return next
}

// applyLocked makes lang active. It reports the change sequence number and
// whether anything changed. setMu must be held.
func (p *Provider) applyLocked(lang i18n.Language) (uint64, bool) {
	if p.pref.Get() == lang {
		return p.seq, false
	}
	p.pref.Set(lang)
	p.doc.SetLang(lang.String())
	p.seq++
	p.logger.Debug("language changed", "language", lang)
	return p.seq, true
}

// Subscribe registers fn for language changes and returns a function that
// removes it.
func (p *Provider) Subscribe(fn func(State)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// notify delivers s unless a later change was already delivered.
// Subscribers must not change the language.
func (p *Provider) notify(seq uint64, s State) {
	p.mu.Lock()
	subs := make([]func(State), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	if seq <= p.delivered {
		return
	}
	p.delivered = seq
	for _, fn := range subs {
		fn(s)
	}
}
