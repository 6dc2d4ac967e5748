package handlers

import (
	"net/http"

	"stashbox/services"
	"stashbox/utils"

	"github.com/gin-gonic/gin"
)

type createTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type updateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func CreateTag(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	tag, err := getServices().Tags.Create(c.Request.Context(), userID, services.CreateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Created(c, tag)
}

func ListTags(c *gin.Context) {
	userID := c.GetUint("user_id")
	tags, err := getServices().Tags.List(c.Request.Context(), userID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, tags)
}

func GetTag(c *gin.Context) {
	userID := c.GetUint("user_id")
	tagID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	tag, err := getServices().Tags.Get(c.Request.Context(), userID, tagID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, tag)
}

func UpdateTag(c *gin.Context) {
	userID := c.GetUint("user_id")
	tagID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req updateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	tag, err := getServices().Tags.Update(c.Request.Context(), userID, tagID, services.UpdateTagInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, tag)
}

func DeleteTag(c *gin.Context) {
	userID := c.GetUint("user_id")
	tagID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Tags.Delete(c.Request.Context(), userID, tagID)) {
		return
	}
	utils.NoContent(c)
}
