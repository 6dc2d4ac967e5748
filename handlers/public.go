package handlers

import (
	"net/http"

	"stashbox/services"
	"stashbox/utils"

	"github.com/gin-gonic/gin"
)

type shareAccessRequest struct {
	Password string `json:"password"`
}

// AccessSharedLink serves anonymous visitors; no auth middleware runs here.
func AccessSharedLink(c *gin.Context) {
	var req shareAccessRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	out, err := getServices().SharedLinks.Access(c.Request.Context(), services.ShareAccessInput{
		Token:     c.Param("token"),
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

func GetPublicCollection(c *gin.Context) {
	view, err := getServices().Collections.GetPublicBySlug(c.Request.Context(), c.Param("slug"))
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, view)
}
