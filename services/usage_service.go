package services

import (
	"context"
	"errors"

	"stashbox/models"
	"stashbox/repositories"

	"gorm.io/gorm"
)

type UsageOutput struct {
	UsedStorageBytes int64   `json:"used_storage_bytes"`
	MaxStorageBytes  int64   `json:"max_storage_bytes"`
	ItemCount        int64   `json:"item_count"`
	MaxItems         int64   `json:"max_items"`
	CollectionCount  int64   `json:"collection_count"`
	MaxCollections   int64   `json:"max_collections"`
	StoragePercent   float64 `json:"storage_percent"`
}

type UsageService interface {
	GetUsage(ctx context.Context, userID uint) (UsageOutput, error)
}

type usageService struct {
	usage repositories.UsageRepository
}

func NewUsageService(usage repositories.UsageRepository) UsageService {
	return &usageService{usage: usage}
}

func (s *usageService) GetUsage(ctx context.Context, userID uint) (UsageOutput, error) {
	usage, err := s.usage.GetByUser(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UsageOutput{}, newNotFoundError("usage record not found")
		}
		return UsageOutput{}, newInternalError("failed to query usage", err)
	}

	percent := 0.0
	if usage.MaxStorageBytes > 0 {
		percent = float64(usage.UsedStorageBytes) / float64(usage.MaxStorageBytes) * 100
	}

	return UsageOutput{
		UsedStorageBytes: usage.UsedStorageBytes,
		MaxStorageBytes:  usage.MaxStorageBytes,
		ItemCount:        usage.ItemCount,
		MaxItems:         usage.MaxItems,
		CollectionCount:  usage.CollectionCount,
		MaxCollections:   usage.MaxCollections,
		StoragePercent:   percent,
	}, nil
}

// checkStorageQuota returns a quota error when adding size would exceed the
// user's storage limit.
func checkStorageQuota(usage models.UserUsage, size int64) error {
	if usage.UsedStorageBytes+size > usage.MaxStorageBytes {
		return newQuotaExceededError("storage quota exceeded", map[string]interface{}{
			"max_storage_bytes":  usage.MaxStorageBytes,
			"used_storage_bytes": usage.UsedStorageBytes,
			"required_bytes":     size,
		})
	}
	return nil
}

func checkItemQuota(usage models.UserUsage) error {
	if usage.ItemCount >= usage.MaxItems {
		return newQuotaExceededError("item limit reached", map[string]interface{}{
			"item_count": usage.ItemCount,
			"max_items":  usage.MaxItems,
		})
	}
	return nil
}

func checkCollectionQuota(usage models.UserUsage) error {
	if usage.CollectionCount >= usage.MaxCollections {
		return newQuotaExceededError("collection limit reached", map[string]interface{}{
			"collection_count": usage.CollectionCount,
			"max_collections":  usage.MaxCollections,
		})
	}
	return nil
}
