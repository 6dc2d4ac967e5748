package services

import (
	"context"
	"time"

	"stashbox/config"
	applog "stashbox/logger"
	"stashbox/repositories"

	"gorm.io/gorm"
)

// CleanupService runs the background housekeeping loops: purging long-expired
// shared links and sweeping stored files no item references anymore.
type CleanupService interface {
	Start(ctx context.Context)
	PurgeExpiredLinks(ctx context.Context) (int, error)
	SweepOrphanFiles(ctx context.Context) (int, error)
}

type cleanupService struct {
	txManager   TxManager
	sharedLinks repositories.SharedLinkRepository
	files       repositories.FileRepository
	usage       repositories.UsageRepository
	storage     ObjectStorage
	now         func() time.Time
}

func NewCleanupService(
	txManager TxManager,
	sharedLinks repositories.SharedLinkRepository,
	files repositories.FileRepository,
	usage repositories.UsageRepository,
	storage ObjectStorage,
) CleanupService {
	return &cleanupService{
		txManager:   txManager,
		sharedLinks: sharedLinks,
		files:       files,
		usage:       usage,
		storage:     storage,
		now:         time.Now,
	}
}

func (s *cleanupService) Start(ctx context.Context) {
	cfg := config.AppConfig.Cleanup
	if !cfg.Enabled {
		applog.Infof("cleanup workers disabled")
		return
	}
	interval := time.Duration(cfg.IntervalSeconds) * time.Second
	go s.loop(ctx, interval, "expired-link purge", s.PurgeExpiredLinks)
	go s.loop(ctx, interval, "orphan-file sweep", s.SweepOrphanFiles)
}

func (s *cleanupService) loop(ctx context.Context, interval time.Duration, name string, run func(context.Context) (int, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := run(ctx)
			if err != nil {
				applog.Errorf("%s: %v", name, err)
				continue
			}
			if count > 0 {
				applog.Infof("%s removed %d rows", name, count)
			}
		}
	}
}

// PurgeExpiredLinks hard-deletes links whose expiry passed the retention
// window. Recently expired links stay visible to their owner.
func (s *cleanupService) PurgeExpiredLinks(ctx context.Context) (int, error) {
	cutoff := s.now().AddDate(0, 0, -config.AppConfig.Cleanup.ExpiredLinkDays)
	links, err := s.sharedLinks.ListExpiredBefore(ctx, nil, cutoff)
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, link := range links {
		if err := s.sharedLinks.DeleteByID(ctx, nil, link.ID); err != nil {
			applog.Warnf("purge link %d: %v", link.ID, err)
			continue
		}
		purged++
	}
	return purged, nil
}

// SweepOrphanFiles removes stored files that lost their last item reference,
// for example after a crash between row deletion and object deletion. The
// grace period keeps files mid-upload out of the sweep.
func (s *cleanupService) SweepOrphanFiles(ctx context.Context) (int, error) {
	cfg := config.AppConfig.Cleanup
	cutoff := s.now().Add(-time.Duration(cfg.OrphanGraceMinutes) * time.Minute)
	orphans, err := s.files.ListOrphans(ctx, nil, cutoff, cfg.OrphanSweepBatch)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, file := range orphans {
		file := file
		err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
			if err := s.files.DeleteByIDs(ctx, tx, []uint{file.ID}); err != nil {
				return err
			}
			return s.usage.AddStorageUsed(ctx, tx, file.UserID, -file.Size)
		})
		if err != nil {
			applog.Warnf("sweep file %d: %v", file.ID, err)
			continue
		}
		if err := s.storage.Delete(ctx, file.StorageKey); err != nil {
			applog.Warnf("sweep object %s: %v", file.StorageKey, err)
		}
		if file.ThumbnailKey != "" {
			if err := s.storage.Delete(ctx, file.ThumbnailKey); err != nil {
				applog.Warnf("sweep thumbnail %s: %v", file.ThumbnailKey, err)
			}
		}
		swept++
	}
	return swept, nil
}
