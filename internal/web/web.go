// Package web embeds the page shells and static assets served alongside the
// JSON API.
package web

import "embed"

//go:embed templates static
var FS embed.FS
