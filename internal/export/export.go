// Package export renders the site to static files for hosting without a
// server, such as GitHub Pages, and optionally uploads them to S3.
//
// The export writes one page per language (index.html for English,
// es/index.html for Spanish), the fingerprinted assets and the asset
// manifest. Static pages have no waitlist form: the call to action links
// to the external pre-order form, and the language toggle links to the
// page of the other language.
package export

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/patagonia-pages/bookpage/internal/config"
	"github.com/patagonia-pages/bookpage/internal/errors"
	"github.com/patagonia-pages/bookpage/internal/i18n"
	"github.com/patagonia-pages/bookpage/internal/sections"
	"github.com/patagonia-pages/bookpage/internal/site"
	"github.com/patagonia-pages/bookpage/internal/static"
	"github.com/patagonia-pages/bookpage/internal/visitor"
	"github.com/patagonia-pages/bookpage/pkg/assets"
	"github.com/patagonia-pages/bookpage/pkg/render"
)

// ManifestName is the manifest file, written inside the static directory.
const ManifestName = "manifest.json"

// Options configures an export.
type Options struct {
	Config *config.Config
	Table  *i18n.Table
	Logger *slog.Logger

	// Static overrides the embedded assets.
	Static fs.FS
}

// File is one written file, relative to the output directory with
// forward slashes.
type File struct {
	Path string

	// Immutable marks fingerprinted assets that never change under
	// their name.
	Immutable bool
}

// Result describes a finished export.
type Result struct {
	Output   string
	Pages    []string
	Files    []File
	Manifest *assets.Manifest
}

// Run writes the static site to cfg.Export.Output.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "export")
	table := opts.Table
	if table == nil {
		t, err := i18n.Load()
		if err != nil {
			return nil, err
		}
		table = t
	}
	staticFS := opts.Static
	if staticFS == nil {
		staticFS = static.FS()
	}

	out := cfg.Export.Output
	base := cfg.Export.BasePath
	staticDir := cfg.Server.StaticPrefix

	manifest, err := assets.Fingerprint(staticFS)
	if err != nil {
		return nil, errors.New("E202").WithDetail("fingerprint assets").Wrap(err)
	}
	resolver := assets.NewResolver(manifest, base+staticDir)

	values := site.SiteValues(cfg)
	values.PreorderForm = false

	res := &Result{Output: out, Manifest: manifest}
	w := &writer{root: out}

	renderer := render.NewRenderer(render.RendererConfig{})
	for _, lang := range table.Languages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel := sections.LanguagePath(lang) + "index.html"
		html, err := renderPage(ctx, renderer, lang, resolver, visitor.Deps{
			Table:  table,
			Site:   values,
			Assets: resolver,
			Base:   base,
			Static: true,
			Logger: logger,
		}, alternates(table, base))
		if err != nil {
			return nil, errors.New("E201").WithDetailf("page %s", rel).Wrap(err)
		}
		if err := w.write(rel, html); err != nil {
			return nil, err
		}
		res.Pages = append(res.Pages, rel)
		res.Files = append(res.Files, File{Path: rel})
		logger.Debug("page written", "path", rel, "language", lang)
	}

	for _, source := range manifest.Sources() {
		data, err := fs.ReadFile(staticFS, source)
		if err != nil {
			return nil, errors.New("E202").WithDetailf("read asset %s", source).Wrap(err)
		}
		rel := staticDir + manifest.Resolve(source)
		if err := w.write(rel, data); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, File{Path: rel, Immutable: true})
	}

	manifestPath := staticDir + ManifestName
	if err := manifest.WriteFile(w.path(manifestPath)); err != nil {
		return nil, errors.New("E202").WithDetailf("write %s", manifestPath).Wrap(err)
	}
	res.Files = append(res.Files, File{Path: manifestPath})

	// GitHub Pages would otherwise run the tree through Jekyll.
	if err := w.write(".nojekyll", nil); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, File{Path: ".nojekyll"})

	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })
	logger.Info("export complete",
		"output", out,
		"pages", len(res.Pages),
		"assets", manifest.Len())
	return res, nil
}

func renderPage(ctx context.Context, r *render.Renderer, lang i18n.Language, resolver assets.Resolver, deps visitor.Deps, links []render.LinkTag) ([]byte, error) {
	sess := visitor.New("export-"+lang.String(), deps, visitor.Request{Stored: lang.String()})
	defer sess.Close()

	page := site.Document(ctx, sess, site.PageOptions{Assets: resolver, Base: deps.Base})
	page.Links = append(page.Links, links...)

	var buf bytes.Buffer
	if err := r.RenderPage(&buf, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// alternates links every language version of the page.
func alternates(table *i18n.Table, base string) []render.LinkTag {
	var links []render.LinkTag
	for _, lang := range table.Languages() {
		links = append(links, render.LinkTag{
			Rel:      "alternate",
			Href:     base + sections.LanguagePath(lang),
			Hreflang: lang.String(),
		})
	}
	return links
}

// writer writes files below root, creating directories as needed.
type writer struct {
	root string
}

func (w *writer) path(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(path.Clean(rel)))
}

func (w *writer) write(rel string, data []byte) error {
	full := w.path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.New("E202").WithDetailf("create directory for %s", rel).Wrap(err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return errors.New("E202").WithDetailf("write %s", rel).Wrap(err)
	}
	return nil
}
