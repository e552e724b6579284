package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/infinitetutor-backend/internal/http/response"
	"github.com/yungbote/infinitetutor-backend/internal/platform/ctxutil"
	"github.com/yungbote/infinitetutor-backend/internal/services"
)

// AuthHandler covers the session endpoints. Tokens are issued by the external
// identity provider, so there is no login here.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler { return &AuthHandler{} }

// POST /logout. Session teardown happens client-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.RespondMessage(c, "Logged out successfully")
}

// GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.Email == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", services.ErrMissingIdentity)
		return
	}
	response.RespondOK(c, gin.H{"id": rd.Subject, "email": rd.Email})
}
