package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkly/inkly/internal/common"
	"github.com/inkly/inkly/internal/content"
	"github.com/inkly/inkly/internal/logging"
)

// writeError maps a service error onto a status code and JSON body. A taken
// username is a conflict and keeps its reason codes. Only unexpected errors
// are logged; their text never reaches the client.
func writeError(c *gin.Context, logger logging.Logger, err error) {
	var verr *content.ValidationError
	switch {
	case errors.As(err, &verr):
		status := http.StatusUnprocessableEntity
		if (content.Verdict{Reasons: verr.Reasons}).Has(content.ReasonUsernameTaken) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error":   verr.Error(),
			"field":   verr.Field,
			"reasons": verr.Reasons,
		})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, common.ErrUsernameRequired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   common.ErrUsernameRequired.Error(),
			"field":   "username",
			"reasons": []string{},
		})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "reasons": []string{}})
	case errors.Is(err, common.ErrInvalidTransition), errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequestBody(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "invalid request body: " + err.Error(),
		"reasons": []string{},
	})
}
