// Package web embeds the HTML views.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
