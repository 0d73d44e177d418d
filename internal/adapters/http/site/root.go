// Package site serves the embedded dashboard: a scatter of every tenure's
// 2-D projection coloured by cluster, plus the cluster table.
package site

import (
	"context"
	"net/http"
)

// Register attaches the dashboard at the exact root path.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /{$}", http.FileServer(FS()))
}
