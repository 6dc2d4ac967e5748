package services

import (
	"context"
	"errors"
	"strings"

	"stashbox/models"
	"stashbox/repositories"

	"gorm.io/gorm"
)

type CreateTagInput struct {
	Name  string
	Color string
}

type UpdateTagInput struct {
	Name  *string
	Color *string
}

type TagService interface {
	Create(ctx context.Context, userID uint, in CreateTagInput) (models.Tag, error)
	Get(ctx context.Context, userID uint, tagID uint) (models.Tag, error)
	List(ctx context.Context, userID uint) ([]models.Tag, error)
	Update(ctx context.Context, userID uint, tagID uint, in UpdateTagInput) (models.Tag, error)
	Delete(ctx context.Context, userID uint, tagID uint) error
}

type tagService struct {
	txManager TxManager
	tags      repositories.TagRepository
	itemTags  repositories.ItemTagRepository
}

func NewTagService(txManager TxManager, tags repositories.TagRepository, itemTags repositories.ItemTagRepository) TagService {
	return &tagService{txManager: txManager, tags: tags, itemTags: itemTags}
}

func (s *tagService) Create(ctx context.Context, userID uint, in CreateTagInput) (models.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Tag{}, newValidationError("tag name is required")
	}

	// Name uniqueness per user is literal: "Work" and "work" are distinct tags.
	count, err := s.tags.CountByNameAndUser(ctx, nil, userID, name, 0)
	if err != nil {
		return models.Tag{}, newInternalError("failed to check tag name", err)
	}
	if count > 0 {
		return models.Tag{}, newConflictError("tag name already exists")
	}

	tag := models.Tag{UserID: userID, Name: name, Color: in.Color}
	if err := s.tags.Create(ctx, nil, &tag); err != nil {
		return models.Tag{}, newInternalError("failed to create tag", err)
	}
	return tag, nil
}

func (s *tagService) getOwned(ctx context.Context, userID uint, tagID uint) (models.Tag, error) {
	tag, err := s.tags.GetByID(ctx, nil, tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Tag{}, newNotFoundError("tag not found")
		}
		return models.Tag{}, newInternalError("failed to query tag", err)
	}
	if err := ensureOwner(tag.UserID, userID); err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func (s *tagService) Get(ctx context.Context, userID uint, tagID uint) (models.Tag, error) {
	return s.getOwned(ctx, userID, tagID)
}

func (s *tagService) List(ctx context.Context, userID uint) ([]models.Tag, error) {
	tags, err := s.tags.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, newInternalError("failed to list tags", err)
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

func (s *tagService) Update(ctx context.Context, userID uint, tagID uint, in UpdateTagInput) (models.Tag, error) {
	tag, err := s.getOwned(ctx, userID, tagID)
	if err != nil {
		return models.Tag{}, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return models.Tag{}, newValidationError("tag name is required")
		}
		if name != tag.Name {
			count, err := s.tags.CountByNameAndUser(ctx, nil, userID, name, tagID)
			if err != nil {
				return models.Tag{}, newInternalError("failed to check tag name", err)
			}
			if count > 0 {
				return models.Tag{}, newConflictError("tag name already exists")
			}
		}
		updates["name"] = name
		tag.Name = name
	}
	if in.Color != nil {
		updates["color"] = *in.Color
		tag.Color = *in.Color
	}
	if len(updates) == 0 {
		return tag, nil
	}

	if err := s.tags.UpdateByIDAndUser(ctx, nil, tagID, userID, updates); err != nil {
		return models.Tag{}, newInternalError("failed to update tag", err)
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, userID uint, tagID uint) error {
	if _, err := s.getOwned(ctx, userID, tagID); err != nil {
		return err
	}

	// Items keep existing, they just lose the tag.
	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.itemTags.DeleteByTag(ctx, tx, tagID); err != nil {
			return err
		}
		return s.tags.DeleteByID(ctx, tx, tagID)
	})
	if err != nil {
		return newInternalError("failed to delete tag", err)
	}
	return nil
}
