package handlers

import (
	"net/http"
	"strconv"

	"stashbox/services"
	"stashbox/utils"

	"github.com/gin-gonic/gin"
)

type createCollectionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	SlugPublic  string `json:"slug_public"`
	CoverImage  string `json:"cover_image"`
	ParentID    *uint  `json:"parent_id"`
}

type updateCollectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
	SlugPublic  *string `json:"slug_public"`
	CoverImage  *string `json:"cover_image"`
}

type moveCollectionRequest struct {
	ParentID *uint `json:"parent_id"`
}

type collectionItemsRequest struct {
	ItemIDs []uint `json:"item_ids" binding:"required"`
}

func CreateCollection(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	collection, err := getServices().Collections.Create(c.Request.Context(), userID, services.CreateCollectionInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		SlugPublic:  req.SlugPublic,
		CoverImage:  req.CoverImage,
		ParentID:    req.ParentID,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Created(c, collection)
}

func ListCollections(c *gin.Context) {
	userID := c.GetUint("user_id")

	var isPublic *bool
	if raw := c.Query("is_public"); raw != "" {
		value := raw == "true"
		isPublic = &value
	}
	var parentID *uint
	if raw := c.Query("parent_id"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "invalid parent_id")
			return
		}
		id := uint(value)
		parentID = &id
	}

	collections, err := getServices().Collections.List(c.Request.Context(), userID, services.CollectionListQuery{
		Search:   c.Query("search"),
		IsPublic: isPublic,
		ParentID: parentID,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, collections)
}

func GetCollection(c *gin.Context) {
	userID := c.GetUint("user_id")
	collectionID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	collection, err := getServices().Collections.Get(c.Request.Context(), userID, collectionID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, collection)
}

func UpdateCollection(c *gin.Context) {
	userID := c.GetUint("user_id")
	collectionID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	collection, err := getServices().Collections.Update(c.Request.Context(), userID, collectionID, services.UpdateCollectionInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		SlugPublic:  req.SlugPublic,
		CoverImage:  req.CoverImage,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, collection)
}

func MoveCollection(c *gin.Context) {
	userID := c.GetUint("user_id")
	collectionID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req moveCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	collection, err := getServices().Collections.Move(c.Request.Context(), userID, collectionID, req.ParentID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, collection)
}

func DeleteCollection(c *gin.Context) {
	userID := c.GetUint("user_id")
	collectionID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Collections.Delete(c.Request.Context(), userID, collectionID)) {
		return
	}
	utils.NoContent(c)
}

func AddCollectionItems(c *gin.Context) {
	userID := c.GetUint("user_id")
	collectionID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req collectionItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := getServices().Collections.AddItems(c.Request.Context(), userID, collectionID, req.ItemIDs)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, result)
}

func RemoveCollectionItems(c *gin.Context) {
	userID := c.GetUint("user_id")
	collectionID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req collectionItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := getServices().Collections.RemoveItems(c.Request.Context(), userID, collectionID, req.ItemIDs)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, result)
}
