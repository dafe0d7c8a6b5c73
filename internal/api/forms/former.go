// Package forms parses and validates API request bodies.
package forms

import (
	"github.com/gin-gonic/gin"

	"github.com/tgienger/weekly/internal/api/response"
)

type Former interface {
	ParseAndValidate(c *gin.Context) (Former, response.Error)
	ConvertToMap() map[string]interface{}
}
