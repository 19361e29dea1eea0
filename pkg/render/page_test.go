package render

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/patagonia-pages/bookpage/pkg/vdom"
)

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(RendererConfig{}).RenderPage(&buf, PageData{
		Body:        Main(H1("Un Andrés Más")),
		Title:       "Un Andrés Más",
		Lang:        "es",
		Meta:        []MetaTag{{Name: "description", Content: "Un viaje"}},
		Links:       []LinkTag{{Rel: "icon", Href: "/static/favicon.svg", Type: "image/svg+xml"}},
		StyleSheets: []string{"/static/site.css"},
		Scripts:     []ScriptTag{{Src: "/static/live.js", Defer: true}},
		BodyAttrs:   []Attr{Data("live-url", "/_live")},
	})
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	html := buf.String()

	checks := []string{
		"<!DOCTYPE html>\n",
		`<html lang="es">`,
		`<meta charset="utf-8">`,
		`<title>Un Andrés Más</title>`,
		`<meta content="Un viaje" name="description">`,
		`<link href="/static/favicon.svg" rel="icon" type="image/svg+xml">`,
		`<link href="/static/site.css" rel="stylesheet">`,
		`<body data-live-url="/_live"><main><h1>Un Andrés Más</h1></main>`,
		`<script defer src="/static/live.js"></script></body></html>`,
	}
	for _, want := range checks {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q\n%s", want, html)
		}
	}
}

func TestRenderPageDefaultLang(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderPage(&buf, PageData{Body: Div()}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `<html lang="en">`) {
		t.Errorf("expected default lang en: %s", buf.String())
	}
	if strings.Contains(buf.String(), "<title>") {
		t.Error("empty title should be omitted")
	}
}
