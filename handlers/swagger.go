package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>fritter — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

var swaggerJSON = gin.H{
	"openapi": "3.0.0",
	"info": gin.H{
		"title":   "fritter annotation service",
		"version": "1.0.0",
	},
	"paths": gin.H{
		"/auth/register": gin.H{"post": gin.H{"summary": "Create a local account"}},
		"/auth/login":    gin.H{"post": gin.H{"summary": "Log in, returns access and refresh tokens"}},
		"/auth/refresh":  gin.H{"post": gin.H{"summary": "Exchange a refresh token for a new access token"}},
		"/auth/logout":   gin.H{"post": gin.H{"summary": "Invalidate the refresh session and blacklist the access token"}},
		"/api/freets": gin.H{
			"get":  gin.H{"summary": "List the feed (flagged freets hidden); ?author= scopes to one author"},
			"post": gin.H{"summary": "Create a freet"},
		},
		"/api/freets/{freetId}": gin.H{
			"put":    gin.H{"summary": "Edit a freet (author only)"},
			"delete": gin.H{"summary": "Delete a freet (author only)"},
		},
		"/api/liked": gin.H{"get": gin.H{"summary": "List likes; ?author= scopes to one author"}},
		"/api/liked/{freetId}": gin.H{
			"post":   gin.H{"summary": "Like a freet (409 when already liked)"},
			"delete": gin.H{"summary": "Unlike a freet (404 when not liked)"},
		},
		"/api/flagged": gin.H{"get": gin.H{"summary": "List flagged freets; ?author= scopes to one author"}},
		"/api/flagged/{freetId}": gin.H{
			"post":   gin.H{"summary": "Flag a freet (409 when already flagged)"},
			"delete": gin.H{"summary": "Unflag a freet (404 when not flagged)"},
		},
		"/api/pin": gin.H{
			"get":    gin.H{"summary": "Get the active pin for ?author= or the caller"},
			"delete": gin.H{"summary": "Unpin the caller's active pin (404 when nothing pinned)"},
		},
		"/api/pin/{freetId}": gin.H{
			"post":   gin.H{"summary": "Pin a freet, replacing any prior pin in the caller's scope"},
			"delete": gin.H{"summary": "Unpin a specific freet (404 when it is not the active pin)"},
		},
		"/api/alerts": gin.H{"get": gin.H{"summary": "List the caller's live alerts"}},
	},
}
