package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/infinitetutor-backend/internal/platform/apierr"
)

// ErrorEnvelope is the body of every non-2xx JSON response.
type ErrorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type MessageEnvelope struct {
	Message string `json:"message"`
}

func envelope(code string, err error) ErrorEnvelope {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ErrorEnvelope{Error: msg, Code: code}
}

func RespondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, envelope(code, err))
}

// AbortError writes the envelope and stops the handler chain.
func AbortError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, envelope(code, err))
}

// RespondServiceError maps an error returned by a service to its status.
// Errors that carry no apierr status are reported as 500 with fallbackCode.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	status, code := apierr.StatusOf(err, fallbackCode)
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageEnvelope{Message: msg})
}
