package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// openAPIPaths are tried in order; the first covers the container image.
var openAPIPaths = []string{
	"/docs/openapi.yaml",
	"docs/openapi.yaml",
	filepath.Join("..", "..", "docs", "openapi.yaml"),
}

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/html")
		c.String(http.StatusOK, `<!doctype html>
<html><head><title>Hotel Insights Docs</title></head>
<body>
<redoc spec-url="/openapi.yaml"></redoc>
<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body></html>`)
	})
	r.GET("/openapi.yaml", func(c *gin.Context) {
		var content []byte
		var err error
		for _, path := range openAPIPaths {
			content, err = os.ReadFile(path)
			if err == nil {
				break
			}
		}
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "openapi.yaml not found"})
			return
		}

		c.Header("Content-Type", "application/x-yaml")
		c.String(http.StatusOK, string(content))
	})
}
