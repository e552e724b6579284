package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/infinitetutor-backend/internal/http/response"
)

// bindBody decodes the JSON body into dst and writes a 400 on failure.
// An empty body leaves dst at its zero value when allowEmpty is set.
func bindBody(c *gin.Context, dst any, allowEmpty bool) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	if errors.Is(err, io.EOF) {
		err = errors.New("Request body is required")
	}
	response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
	return false
}
