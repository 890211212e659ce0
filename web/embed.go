// Package web bundles the browser UI served next to the API.
package web

import "embed"

// Assets holds templates/index.html and everything under static/.
//
//go:embed templates static
var Assets embed.FS
