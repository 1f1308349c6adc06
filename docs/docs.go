// Package docs serves the OpenAPI description of the HTTP API and a Swagger UI
// page that renders it.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.yaml
var openAPI []byte

//go:embed index.html
var indexHTML []byte

// OpenAPI returns the embedded OpenAPI document.
func OpenAPI() []byte {
	return openAPI
}

// Register mounts the documentation under /api-docs.
func Register(r gin.IRoutes) {
	r.GET("/api-docs", func(ctx *gin.Context) {
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
	r.GET("/api-docs/openapi.yaml", func(ctx *gin.Context) {
		ctx.Data(http.StatusOK, "application/yaml", openAPI)
	})
}
