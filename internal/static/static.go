// Package static embeds the stylesheet, live client and images of the
// site.
package static

import (
	"embed"
	"io/fs"
	"mime"
	"path"
	"strings"
)

//go:embed css js images favicon.svg
var files embed.FS

// FS returns the embedded files, rooted at the asset names used by the
// page ("css/site.css", "images/cover.webp").
func FS() fs.FS {
	return files
}

// ContentType returns the media type of an asset name.
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".js":
		return "text/javascript; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".json":
		return "application/json"
	case ".html":
		return "text/html; charset=utf-8"
	}
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
