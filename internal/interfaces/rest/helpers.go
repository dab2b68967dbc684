package rest

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
)

// RespondAppError sends a standardised JSON error response using pkg/errors.
// The cause code maps 1:1 to the HTTP status; handlers never re-interpret it.
func RespondAppError(c *gin.Context, err error) {
	status := errors.GetHTTPStatus(err)
	code := errors.GetErrorCode(err)
	message := err.Error()

	if status >= 500 {
		log.Printf("❌ ERROR [%d] %s %s: %s", status, c.Request.Method, c.Request.URL.Path, message)
	}

	c.JSON(status, gin.H{
		constants.ResponseError: message,
		constants.FieldMessage:  message,
		"code":                  code,
		"data":                  nil,
	})
}

// RespondData sends a success envelope
func RespondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		constants.ResponseData: data,
	})
}

// BindJSON binds the request body, answering 400 VALIDATION_ERROR on failure
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondAppError(c, errors.NewValidationError("body", err.Error()))
		return false
	}
	return true
}

// atoiDefault parses a query integer with a fallback
func atoiDefault(c *gin.Context, key string, fallback int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil && n >= 0 {
		return n
	}
	return fallback
}
