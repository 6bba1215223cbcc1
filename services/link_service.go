package services

import (
	"context"
	"errors"
	"strings"

	"envitefy.link/configs/configslog"
	"envitefy.link/models"
	"envitefy.link/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LinkServiceError string

func (e LinkServiceError) Error() string { return string(e) }

const (
	ErrLinkNotFound      LinkServiceError = "link not found"
	ErrLinkKeyExhausted  LinkServiceError = "could not generate a unique link key"
	ErrLinkCreationError LinkServiceError = "link could not be created"
)

// linkKeyLength matches the links.key column width.
const linkKeyLength = 11

const linkKeyAttempts = 5

// ILinkService manages the short shareable keys.
type ILinkService interface {
	CreateLink(ctx context.Context, creatorUserID uint, typeID uint) (*models.Link, error)
	GetLinkByKey(ctx context.Context, key string) (*models.Link, error)
}

type LinkService struct {
	repo repositories.ILinkRepository
}

func NewLinkService() ILinkService {
	return &LinkService{repo: repositories.NewLinkRepository()}
}

// NewLinkServiceTx binds the service to an open transaction.
func NewLinkServiceTx(tx *gorm.DB) ILinkService {
	return &LinkService{repo: repositories.NewLinkRepositoryTx(tx)}
}

// GenerateLinkKey derives an 11-character opaque key from a fresh UUID.
// Collisions are vanishingly unlikely but still checked before insert.
func GenerateLinkKey() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:linkKeyLength]
}

func (s *LinkService) CreateLink(ctx context.Context, creatorUserID uint, typeID uint) (*models.Link, error) {
	if creatorUserID == 0 || typeID == 0 {
		return nil, ErrLinkCreationError
	}

	for attempt := 0; attempt < linkKeyAttempts; attempt++ {
		key := GenerateLinkKey()
		exists, err := s.repo.ExistsByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if exists {
			configslog.SLog.Warnw("link key collision, retrying", "attempt", attempt+1)
			continue
		}
		link := &models.Link{
			Key:           key,
			TypeID:        typeID,
			TargetID:      0, // filled in after the target row exists
			CreatorUserID: creatorUserID,
		}
		if err := s.repo.Create(ctx, link); err != nil {
			configslog.Log.Error("link create failed", zap.String("key", key), zap.Error(err))
			return nil, ErrLinkCreationError
		}
		return link, nil
	}
	return nil, ErrLinkKeyExhausted
}

func (s *LinkService) GetLinkByKey(ctx context.Context, key string) (*models.Link, error) {
	link, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return link, nil
}

var _ ILinkService = (*LinkService)(nil)
