package main

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path"
)

//go:embed web
var webFS embed.FS

// staticHandler serves the embedded single-page client. Unknown paths
// fall back to index.html so a page reload inside the app still works.
func (s *Server) staticHandler() http.Handler {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		s.logger.WithError(err).Fatal("Embedded web assets missing")
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean(r.URL.Path)
		if p == "/" {
			fileServer.ServeHTTP(w, r)
			return
		}

		if _, err := fs.Stat(sub, p[1:]); err != nil {
			if os.IsNotExist(err) {
				r.URL.Path = "/"
			}
		}
		fileServer.ServeHTTP(w, r)
	})
}
