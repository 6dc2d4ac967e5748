package services

import (
	"time"

	"stashbox/models"
)

// Public views are what anonymous visitors see through a share token or a
// public collection slug. They deliberately omit database ids, owner ids and
// timestamps other than the item's creation time.

type SharedFileView struct {
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	IsImage      bool   `json:"is_image"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	IsPrimary    bool   `json:"is_primary"`
	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type SharedItemView struct {
	Type        models.ItemType   `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Importance  models.Importance `json:"importance"`
	URL         string            `json:"url,omitempty"`
	Domain      string            `json:"domain,omitempty"`
	Content     string            `json:"content,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Files       []SharedFileView  `json:"files,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type PublicCollectionView struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	CoverImage  string           `json:"cover_image,omitempty"`
	Items       []SharedItemView `json:"items"`
}

func buildSharedFileView(link models.ItemFile, storage ObjectStorage) SharedFileView {
	view := SharedFileView{
		OriginalName: link.File.OriginalName,
		MimeType:     link.File.MimeType,
		Size:         link.File.Size,
		IsImage:      link.File.IsImage,
		Width:        link.File.Width,
		Height:       link.File.Height,
		IsPrimary:    link.IsPrimary,
		URL:          storage.PublicURL(link.File.StorageKey),
	}
	if link.File.ThumbnailKey != "" {
		view.ThumbnailURL = storage.PublicURL(link.File.ThumbnailKey)
	}
	return view
}

func buildSharedItemView(item models.Item, storage ObjectStorage) SharedItemView {
	view := SharedItemView{
		Type:        item.Type,
		Title:       item.Title,
		Description: item.Description,
		Importance:  item.Importance,
		URL:         item.URL,
		Domain:      item.Domain,
		Content:     item.Content,
		CreatedAt:   item.CreatedAt,
	}
	for _, tag := range item.Tags {
		view.Tags = append(view.Tags, tag.Name)
	}
	for _, link := range item.Files {
		view.Files = append(view.Files, buildSharedFileView(link, storage))
	}
	return view
}

func buildPublicCollectionView(collection models.Collection, storage ObjectStorage) PublicCollectionView {
	view := PublicCollectionView{
		Name:        collection.Name,
		Description: collection.Description,
		CoverImage:  collection.CoverImage,
		Items:       []SharedItemView{},
	}
	for _, item := range collection.Items {
		view.Items = append(view.Items, buildSharedItemView(item, storage))
	}
	return view
}
