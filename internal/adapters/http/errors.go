package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/api-integration/internal/adapters/http/dto"
)

// noRoute answers unknown paths with a 404 problem payload instead of gin's
// plain-text default.
func noRoute(c *gin.Context) {
	dto.AbortWithProblem(c, dto.NewStatusProblem(
		http.StatusNotFound,
		"No route matches "+c.Request.URL.Path+".",
		c.Request,
	))
}

// noMethod answers known paths hit with an unsupported method.
func noMethod(c *gin.Context) {
	dto.AbortWithProblem(c, dto.NewStatusProblem(
		http.StatusMethodNotAllowed,
		"Method "+c.Request.Method+" is not allowed on "+c.Request.URL.Path+".",
		c.Request,
	))
}
