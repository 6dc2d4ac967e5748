package handlers

import (
	"net/http"
	"strconv"

	"stashbox/services"
	"stashbox/utils"

	"github.com/gin-gonic/gin"
)

type createSharedLinkRequest struct {
	ItemID         uint   `json:"item_id" binding:"required"`
	ExpiresInHours *int   `json:"expires_in_hours"`
	Password       string `json:"password"`
}

func CreateSharedLink(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req createSharedLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	link, err := getServices().SharedLinks.Create(c.Request.Context(), userID, services.CreateSharedLinkInput{
		ItemID:       req.ItemID,
		ExpiresInHrs: req.ExpiresInHours,
		Password:     req.Password,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Created(c, link)
}

func ListSharedLinks(c *gin.Context) {
	userID := c.GetUint("user_id")

	var itemID uint
	if raw := c.Query("item_id"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "invalid item_id")
			return
		}
		itemID = uint(value)
	}
	var revoked *bool
	if raw := c.Query("revoked"); raw != "" {
		value := raw == "true"
		revoked = &value
	}

	links, err := getServices().SharedLinks.List(c.Request.Context(), userID, services.SharedLinkListQuery{
		ItemID:  itemID,
		Revoked: revoked,
		Status:  c.Query("status"),
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, links)
}

func GetSharedLink(c *gin.Context) {
	userID := c.GetUint("user_id")
	linkID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	link, err := getServices().SharedLinks.Get(c.Request.Context(), userID, linkID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, link)
}

func RevokeSharedLink(c *gin.Context) {
	userID := c.GetUint("user_id")
	linkID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	link, err := getServices().SharedLinks.Revoke(c.Request.Context(), userID, linkID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, link)
}

func DeleteSharedLink(c *gin.Context) {
	userID := c.GetUint("user_id")
	linkID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if respondServiceError(c, getServices().SharedLinks.Delete(c.Request.Context(), userID, linkID)) {
		return
	}
	utils.NoContent(c)
}
