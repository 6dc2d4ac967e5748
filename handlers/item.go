package handlers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"stashbox/config"
	"stashbox/models"
	"stashbox/services"
	"stashbox/utils"

	"github.com/gin-gonic/gin"
)

type newTagPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type createItemRequest struct {
	Type         string          `json:"type" binding:"required"`
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Project      string          `json:"project"`
	Importance   string          `json:"importance"`
	IsPinned     bool            `json:"is_pinned"`
	URL          string          `json:"url"`
	Content      string          `json:"content"`
	TagIDs       []uint          `json:"tag_ids"`
	NewTags      []newTagPayload `json:"new_tags"`
	PrimaryIndex *int            `json:"primary_index"`
}

type updateItemRequest struct {
	Type          *string         `json:"type"`
	Title         *string         `json:"title"`
	Description   *string         `json:"description"`
	Category      *string         `json:"category"`
	Project       *string         `json:"project"`
	Importance    *string         `json:"importance"`
	IsPinned      *bool           `json:"is_pinned"`
	URL           *string         `json:"url"`
	Content       *string         `json:"content"`
	TagIDs        *[]uint         `json:"tag_ids"`
	NewTags       []newTagPayload `json:"new_tags"`
	RemoveFileIDs []uint          `json:"remove_file_ids"`
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

func parseUintList(raw string) ([]uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		value, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(value))
	}
	return ids, nil
}

func toNewTagInputs(payloads []newTagPayload) []services.NewTagInput {
	tags := make([]services.NewTagInput, 0, len(payloads))
	for _, p := range payloads {
		tags = append(tags, services.NewTagInput{Name: p.Name, Color: p.Color})
	}
	return tags
}

// collectUploads opens multipart file headers and enforces the per-request
// count and per-file size caps before anything is written to storage.
func collectUploads(c *gin.Context, headers []*multipart.FileHeader) ([]services.FileUpload, func(), bool) {
	cfg := config.AppConfig.Storage
	if len(headers) > cfg.MaxFileCount {
		utils.Error(c, http.StatusBadRequest, "too many files in one request")
		return nil, nil, false
	}

	var closers []multipart.File
	closeAll := func() {
		for _, f := range closers {
			f.Close()
		}
	}

	uploads := make([]services.FileUpload, 0, len(headers))
	for _, header := range headers {
		if header.Size > cfg.MaxFileSize {
			closeAll()
			utils.Error(c, http.StatusBadRequest, "file exceeds the maximum allowed size")
			return nil, nil, false
		}
		f, err := header.Open()
		if err != nil {
			closeAll()
			utils.Error(c, http.StatusBadRequest, "failed to read uploaded file")
			return nil, nil, false
		}
		closers = append(closers, f)
		uploads = append(uploads, services.FileUpload{
			Filename:    header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Content:     f,
		})
	}
	return uploads, closeAll, true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func CreateItem(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req createItemRequest
	var uploads []services.FileUpload
	cleanup := func() {}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "invalid multipart form")
			return
		}
		req.Type = c.PostForm("type")
		req.Title = c.PostForm("title")
		req.Description = c.PostForm("description")
		req.Category = c.PostForm("category")
		req.Project = c.PostForm("project")
		req.Importance = c.PostForm("importance")
		req.IsPinned = c.PostForm("is_pinned") == "true"
		req.URL = c.PostForm("url")
		req.Content = c.PostForm("content")
		if ids, err := parseUintList(c.PostForm("tag_ids")); err != nil {
			utils.Error(c, http.StatusBadRequest, "invalid tag_ids")
			return
		} else {
			req.TagIDs = ids
		}
		if raw := c.PostForm("new_tags"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.NewTags); err != nil {
				utils.Error(c, http.StatusBadRequest, "invalid new_tags")
				return
			}
		}
		if raw := c.PostForm("primary_index"); raw != "" {
			idx, err := strconv.Atoi(raw)
			if err != nil {
				utils.Error(c, http.StatusBadRequest, "invalid primary_index")
				return
			}
			req.PrimaryIndex = &idx
		}

		var ok bool
		uploads, cleanup, ok = collectUploads(c, form.File["files"])
		if !ok {
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	defer cleanup()

	item, err := getServices().Items.Create(c.Request.Context(), userID, services.CreateItemInput{
		Type:         models.ItemType(strings.ToUpper(req.Type)),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Project:      req.Project,
		Importance:   models.Importance(strings.ToUpper(req.Importance)),
		IsPinned:     req.IsPinned,
		URL:          req.URL,
		Content:      req.Content,
		TagIDs:       req.TagIDs,
		NewTags:      toNewTagInputs(req.NewTags),
		PrimaryIndex: req.PrimaryIndex,
	}, uploads)
	if respondServiceError(c, err) {
		return
	}
	utils.Created(c, item)
}

func ListItems(c *gin.Context) {
	userID := c.GetUint("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	tagIDs, err := parseUintList(c.Query("tag_ids"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid tag_ids")
		return
	}

	var isPinned *bool
	if raw := c.Query("is_pinned"); raw != "" {
		value := raw == "true"
		isPinned = &value
	}

	out, err := getServices().Items.List(c.Request.Context(), userID, services.ItemListQuery{
		Type:       strings.ToUpper(c.Query("type")),
		Category:   c.Query("category"),
		Project:    c.Query("project"),
		Domain:     c.Query("domain"),
		Importance: strings.ToUpper(c.Query("importance")),
		IsPinned:   isPinned,
		TagIDs:     tagIDs,
		Search:     c.Query("search"),
		SortBy:     c.DefaultQuery("sort_by", "created_at"),
		Order:      c.DefaultQuery("order", "desc"),
		Page:       page,
		Limit:      limit,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, utils.ListResponse{
		Data: out.Items,
		Meta: utils.ListMeta{
			Total:      out.Total,
			Page:       out.Page,
			Limit:      out.Limit,
			TotalPages: out.TotalPages,
		},
	})
}

func GetItem(c *gin.Context) {
	userID := c.GetUint("user_id")
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	item, err := getServices().Items.Get(c.Request.Context(), userID, itemID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, item)
}

func UpdateItem(c *gin.Context) {
	userID := c.GetUint("user_id")
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req updateItemRequest
	var uploads []services.FileUpload
	cleanup := func() {}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "invalid multipart form")
			return
		}
		assignIfSet := func(field string, dst **string) {
			if value, set := c.GetPostForm(field); set {
				*dst = &value
			}
		}
		assignIfSet("title", &req.Title)
		assignIfSet("description", &req.Description)
		assignIfSet("category", &req.Category)
		assignIfSet("project", &req.Project)
		assignIfSet("importance", &req.Importance)
		assignIfSet("url", &req.URL)
		assignIfSet("content", &req.Content)
		assignIfSet("type", &req.Type)
		if raw, set := c.GetPostForm("is_pinned"); set {
			value := raw == "true"
			req.IsPinned = &value
		}
		if raw, set := c.GetPostForm("tag_ids"); set {
			ids, err := parseUintList(raw)
			if err != nil {
				utils.Error(c, http.StatusBadRequest, "invalid tag_ids")
				return
			}
			req.TagIDs = &ids
		}
		if raw := c.PostForm("new_tags"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.NewTags); err != nil {
				utils.Error(c, http.StatusBadRequest, "invalid new_tags")
				return
			}
		}
		if raw := c.PostForm("remove_file_ids"); raw != "" {
			ids, err := parseUintList(raw)
			if err != nil {
				utils.Error(c, http.StatusBadRequest, "invalid remove_file_ids")
				return
			}
			req.RemoveFileIDs = ids
		}

		var ok bool
		uploads, cleanup, ok = collectUploads(c, form.File["files"])
		if !ok {
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	defer cleanup()

	in := services.UpdateItemInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Project:       req.Project,
		IsPinned:      req.IsPinned,
		URL:           req.URL,
		Content:       req.Content,
		TagIDs:        req.TagIDs,
		NewTags:       toNewTagInputs(req.NewTags),
		RemoveFileIDs: req.RemoveFileIDs,
	}
	if req.Type != nil {
		itemType := models.ItemType(strings.ToUpper(*req.Type))
		in.Type = &itemType
	}
	if req.Importance != nil {
		importance := models.Importance(strings.ToUpper(*req.Importance))
		in.Importance = &importance
	}

	item, err := getServices().Items.Update(c.Request.Context(), userID, itemID, in, uploads)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, item)
}

func DeleteItem(c *gin.Context) {
	userID := c.GetUint("user_id")
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Items.Delete(c.Request.Context(), userID, itemID)) {
		return
	}
	utils.NoContent(c)
}

func TogglePinItem(c *gin.Context) {
	userID := c.GetUint("user_id")
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	item, err := getServices().Items.TogglePin(c.Request.Context(), userID, itemID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, item)
}

func SetPrimaryItemFile(c *gin.Context) {
	userID := c.GetUint("user_id")
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	fileID, ok := parseUintParam(c, "fileId")
	if !ok {
		return
	}

	if respondServiceError(c, getServices().Items.SetPrimaryFile(c.Request.Context(), userID, itemID, fileID)) {
		return
	}
	utils.Success(c, gin.H{"item_id": itemID, "file_id": fileID})
}

type reorderFilesRequest struct {
	FileIDs []uint `json:"file_ids" binding:"required"`
}

func ReorderItemFiles(c *gin.Context) {
	userID := c.GetUint("user_id")
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req reorderFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if respondServiceError(c, getServices().Items.ReorderFiles(c.Request.Context(), userID, itemID, req.FileIDs)) {
		return
	}
	utils.Success(c, gin.H{"item_id": itemID, "file_ids": req.FileIDs})
}
