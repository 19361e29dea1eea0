package language

import (
	"context"

	"github.com/patagonia-pages/bookpage/internal/errors"
)

type providerKey struct{}

// WithProvider attaches p to ctx; everything rendered with the returned
// context can call Use.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// Lookup returns the language accessor of the provider attached to ctx.
func Lookup(ctx context.Context) (Value, error) {
	p, ok := ctx.Value(providerKey{}).(*Provider)
	if !ok || p == nil {
		return Value{}, errors.New("E001").
			WithSuggestion("Attach a provider with language.WithProvider before rendering")
	}
	return p.Value(), nil
}

// Use returns the language accessor of the provider attached to ctx.
// It panics with error E001 when there is none.
func Use(ctx context.Context) Value {
	v, err := Lookup(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// ProviderFrom returns the provider attached to ctx, or nil.
func ProviderFrom(ctx context.Context) *Provider {
	p, _ := ctx.Value(providerKey{}).(*Provider)
	return p
}
