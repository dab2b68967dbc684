package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gridbase/backend/internal/application/services"
	"github.com/gridbase/backend/pkg/constants"
)

// TableAccess evaluates the access decision for one table action before the
// handler runs. Denials short-circuit with the decision's canonical status
// and stable cause; on allow, the decision (with the loaded table, user and
// ownership flags) is stored on the context for the handler.
func TableAccess(access *services.AccessService, action constants.TableAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := access.Decide(
			c.Request.Context(),
			Principal(c),
			c.Param("slug"),
			action,
			c.Request.Method,
		)
		if !decision.Allowed {
			c.JSON(decision.Status, gin.H{
				constants.ResponseError: "Access denied",
				constants.FieldMessage:  decision.Cause,
				"code":                  decision.Cause,
				"data":                  nil,
			})
			c.Abort()
			return
		}
		c.Set(constants.ContextKeyDecision, &decision)
		c.Next()
	}
}

// Decision returns the access decision stored by TableAccess, or nil
func Decision(c *gin.Context) *services.Decision {
	if v, exists := c.Get(constants.ContextKeyDecision); exists {
		if d, ok := v.(*services.Decision); ok {
			return d
		}
	}
	return nil
}
