package handlers

import (
	"stashbox/utils"

	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")
	profile, err := getServices().Auth.GetProfile(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, profile)
}

func GetUsage(c *gin.Context) {
	userID := c.GetUint("user_id")
	usage, err := getServices().Usage.GetUsage(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, usage)
}
