package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"stashbox/config"
	applog "stashbox/logger"
	"stashbox/models"
	"stashbox/repositories"
	"stashbox/utils"

	"gorm.io/gorm"
)

const (
	ShareStatusActive  = "ACTIVE"
	ShareStatusExpired = "EXPIRED"
	ShareStatusRevoked = "REVOKED"
)

type CreateSharedLinkInput struct {
	ItemID       uint
	ExpiresInHrs *int
	Password     string
}

type SharedLinkView struct {
	models.SharedLink
	Status      string `json:"status"`
	HasPassword bool   `json:"has_password"`
	PublicURL   string `json:"public_url,omitempty"`
}

type SharedLinkListQuery struct {
	ItemID  uint
	Revoked *bool
	Status  string
}

type ShareAccessInput struct {
	Token     string
	Password  string
	IPAddress string
	UserAgent string
}

type ShareAccessOutput struct {
	Item      SharedItemView `json:"item"`
	ExpiresAt time.Time      `json:"expires_at"`
}

type SharedLinkService interface {
	Create(ctx context.Context, userID uint, in CreateSharedLinkInput) (SharedLinkView, error)
	List(ctx context.Context, userID uint, q SharedLinkListQuery) ([]SharedLinkView, error)
	Get(ctx context.Context, userID uint, linkID uint) (SharedLinkView, error)
	Revoke(ctx context.Context, userID uint, linkID uint) (SharedLinkView, error)
	Delete(ctx context.Context, userID uint, linkID uint) error
	Access(ctx context.Context, in ShareAccessInput) (ShareAccessOutput, error)
}

type sharedLinkService struct {
	txManager   TxManager
	sharedLinks repositories.SharedLinkRepository
	items       repositories.ItemRepository
	throttle    repositories.ShareThrottleRepository
	storage     ObjectStorage
	now         func() time.Time
}

func NewSharedLinkService(
	txManager TxManager,
	sharedLinks repositories.SharedLinkRepository,
	items repositories.ItemRepository,
	throttle repositories.ShareThrottleRepository,
	storage ObjectStorage,
) SharedLinkService {
	return &sharedLinkService{
		txManager:   txManager,
		sharedLinks: sharedLinks,
		items:       items,
		throttle:    throttle,
		storage:     storage,
		now:         time.Now,
	}
}

func shareStatus(link models.SharedLink, now time.Time) string {
	switch {
	case link.Revoked:
		return ShareStatusRevoked
	case link.ExpiredAt(now):
		return ShareStatusExpired
	default:
		return ShareStatusActive
	}
}

func (s *sharedLinkService) view(link models.SharedLink) SharedLinkView {
	view := SharedLinkView{
		SharedLink:  link,
		Status:      shareStatus(link, s.now()),
		HasPassword: link.HasPassword(),
	}
	if base := config.AppConfig.Share.PublicBaseURL; base != "" {
		view.PublicURL = base + "/s/" + link.Token
	}
	return view
}

func (s *sharedLinkService) Create(ctx context.Context, userID uint, in CreateSharedLinkInput) (SharedLinkView, error) {
	item, err := s.items.GetByID(ctx, nil, in.ItemID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SharedLinkView{}, newNotFoundError("item not found")
		}
		return SharedLinkView{}, newInternalError("failed to query item", err)
	}
	if err := ensureOwner(item.UserID, userID); err != nil {
		return SharedLinkView{}, err
	}

	cfg := config.AppConfig.Share
	hours := cfg.DefaultExpireHours
	if in.ExpiresInHrs != nil {
		hours = *in.ExpiresInHrs
	}
	if hours <= 0 {
		return SharedLinkView{}, newValidationError("expiry must be a positive number of hours")
	}
	if hours > cfg.MaxExpireHours {
		hours = cfg.MaxExpireHours
	}

	token, err := utils.GenerateShareToken()
	if err != nil {
		return SharedLinkView{}, newInternalError("failed to generate token", err)
	}

	link := models.SharedLink{
		UserID:    userID,
		ItemID:    in.ItemID,
		Token:     token,
		ExpiresAt: s.now().Add(time.Duration(hours) * time.Hour),
	}
	if password := strings.TrimSpace(in.Password); password != "" {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return SharedLinkView{}, newInternalError("failed to hash password", err)
		}
		link.PasswordHash = hash
	}

	if err := s.sharedLinks.Create(ctx, nil, &link); err != nil {
		return SharedLinkView{}, newInternalError("failed to create shared link", err)
	}
	return s.view(link), nil
}

func (s *sharedLinkService) List(ctx context.Context, userID uint, q SharedLinkListQuery) ([]SharedLinkView, error) {
	links, err := s.sharedLinks.ListByUser(ctx, nil, repositories.SharedLinkFilter{
		UserID:  userID,
		ItemID:  q.ItemID,
		Revoked: q.Revoked,
	})
	if err != nil {
		return nil, newInternalError("failed to list shared links", err)
	}

	views := make([]SharedLinkView, 0, len(links))
	for _, link := range links {
		view := s.view(link)
		if q.Status != "" && view.Status != strings.ToUpper(q.Status) {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *sharedLinkService) getOwned(ctx context.Context, userID uint, linkID uint) (models.SharedLink, error) {
	link, err := s.sharedLinks.GetByID(ctx, nil, linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SharedLink{}, newNotFoundError("shared link not found")
		}
		return models.SharedLink{}, newInternalError("failed to query shared link", err)
	}
	if err := ensureOwner(link.UserID, userID); err != nil {
		return models.SharedLink{}, err
	}
	return link, nil
}

func (s *sharedLinkService) Get(ctx context.Context, userID uint, linkID uint) (SharedLinkView, error) {
	link, err := s.getOwned(ctx, userID, linkID)
	if err != nil {
		return SharedLinkView{}, err
	}
	return s.view(link), nil
}

// Revoke is idempotent: revoking an already revoked link succeeds without
// changing anything.
func (s *sharedLinkService) Revoke(ctx context.Context, userID uint, linkID uint) (SharedLinkView, error) {
	link, err := s.getOwned(ctx, userID, linkID)
	if err != nil {
		return SharedLinkView{}, err
	}
	if !link.Revoked {
		if err := s.sharedLinks.UpdateByID(ctx, nil, linkID, map[string]interface{}{"revoked": true}); err != nil {
			return SharedLinkView{}, newInternalError("failed to revoke shared link", err)
		}
		link.Revoked = true
	}
	return s.view(link), nil
}

func (s *sharedLinkService) Delete(ctx context.Context, userID uint, linkID uint) error {
	if _, err := s.getOwned(ctx, userID, linkID); err != nil {
		return err
	}
	if err := s.sharedLinks.DeleteByID(ctx, nil, linkID); err != nil {
		return newInternalError("failed to delete shared link", err)
	}
	return nil
}

// Access resolves a public token. An unknown token is 404; revoked and
// expired links both answer 410 so a visitor cannot tell them apart. A wrong
// password never counts as an access and feeds the per-token-and-ip throttle.
func (s *sharedLinkService) Access(ctx context.Context, in ShareAccessInput) (ShareAccessOutput, error) {
	link, err := s.sharedLinks.GetByToken(ctx, nil, in.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShareAccessOutput{}, newNotFoundError("shared link not found")
		}
		return ShareAccessOutput{}, newInternalError("failed to query shared link", err)
	}
	if link.Revoked || link.ExpiredAt(s.now()) {
		return ShareAccessOutput{}, newGoneError("this link is no longer available")
	}

	cfg := config.AppConfig.Share
	if link.HasPassword() {
		failures, err := s.throttle.Failures(ctx, in.Token, in.IPAddress)
		if err != nil {
			applog.Warnf("share throttle lookup: %v", err)
		}
		if failures >= cfg.PasswordMaxAttempts {
			return ShareAccessOutput{}, newTooManyRequestsError("too many failed attempts, try again later")
		}
		if !utils.CheckPassword(in.Password, link.PasswordHash) {
			if _, err := s.throttle.RegisterFailure(ctx, in.Token, in.IPAddress, cfg.PasswordLockSeconds); err != nil {
				applog.Warnf("share throttle register: %v", err)
			}
			s.logAccess(ctx, nil, link.ID, in, false)
			return ShareAccessOutput{}, newUnauthorizedError("invalid password")
		}
		if err := s.throttle.Reset(ctx, in.Token, in.IPAddress); err != nil {
			applog.Warnf("share throttle reset: %v", err)
		}
	}

	item, err := s.items.GetByID(ctx, nil, link.ItemID, true)
	if err != nil {
		return ShareAccessOutput{}, newInternalError("failed to load shared item", err)
	}

	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.sharedLinks.IncrementAccessCount(ctx, tx, link.ID); err != nil {
			return err
		}
		return s.sharedLinks.CreateAccessLog(ctx, tx, &models.ShareAccessLog{
			SharedLinkID: link.ID,
			IPAddress:    in.IPAddress,
			UserAgent:    in.UserAgent,
			Granted:      true,
		})
	})
	if err != nil {
		return ShareAccessOutput{}, newInternalError("failed to record access", err)
	}

	return ShareAccessOutput{
		Item:      buildSharedItemView(item, s.storage),
		ExpiresAt: link.ExpiresAt,
	}, nil
}

func (s *sharedLinkService) logAccess(ctx context.Context, tx *gorm.DB, linkID uint, in ShareAccessInput, granted bool) {
	entry := models.ShareAccessLog{
		SharedLinkID: linkID,
		IPAddress:    in.IPAddress,
		UserAgent:    in.UserAgent,
		Granted:      granted,
	}
	if err := s.sharedLinks.CreateAccessLog(ctx, tx, &entry); err != nil {
		applog.Warnf("share access log: %v", err)
	}
}
