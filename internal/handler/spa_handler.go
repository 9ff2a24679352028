package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// ServeSPA handles every unmatched route. GET and HEAD requests outside the
// API prefix receive the built asset when one exists and the SPA shell
// otherwise, so the client-side router can take over.
func (a *API) ServeSPA(c *gin.Context) {
	method := c.Request.Method
	if method != http.MethodGet && method != http.MethodHead {
		respondError(c, http.StatusNotFound, "Not found")
		return
	}

	requestPath := path.Clean("/" + c.Request.URL.Path)
	if requestPath == a.apiPrefix || strings.HasPrefix(requestPath, a.apiPrefix+"/") {
		respondError(c, http.StatusNotFound, "Not found")
		return
	}
	// http.ServeFile rejects paths containing "..".
	c.Request.URL.Path = requestPath

	if asset, ok := a.staticAsset(requestPath); ok {
		c.File(asset)
		return
	}

	index := filepath.Join(a.staticDir, "index.html")
	if !isFile(index) {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	c.File(index)
}

func (a *API) staticAsset(requestPath string) (string, bool) {
	if requestPath == "/" {
		return "", false
	}
	candidate := filepath.Join(a.staticDir, filepath.FromSlash(strings.TrimPrefix(requestPath, "/")))
	if !isFile(candidate) {
		return "", false
	}
	return candidate, true
}

func isFile(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}
