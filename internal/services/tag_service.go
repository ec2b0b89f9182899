package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/models"
)

// tagService handles tag-related business logic. Tag rows are global and
// deduplicated by name; visibility is always derived through the caller's
// events rather than an ownership column.
type tagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagServicer.
func NewTagService(db *gorm.DB) TagServicer {
	return &tagService{db: db}
}

// GetOrCreateTag returns the tag with the given name, creating it on first
// use. Names are unique system-wide and matched case-sensitively as stored.
func (s *tagService) GetOrCreateTag(name string) (*models.Tag, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag name is required")
	}
	if len(name) > 50 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tag name must be at most 50 characters")
	}

	var tag models.Tag
	if err := s.db.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
		// A concurrent create may win the race against the unique index;
		// re-read the winner.
		if isUniqueViolation(err) {
			if err := s.db.Where("name = ?", name).First(&tag).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return &tag, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tag, nil
}

// userTagsQuery scopes tags to those reachable through the user's events.
func (s *tagService) userTagsQuery(userID string) *gorm.DB {
	return s.db.Model(&models.Tag{}).
		Joins("JOIN event_tags ON event_tags.tag_id = tags.id").
		Joins("JOIN events ON events.id = event_tags.event_id").
		Where("events.user_id = ?", userID).
		Distinct("tags.*")
}

// ListUserTags retrieves the distinct set of tags referenced by the user's
// events, optionally filtered by a name substring, ordered by name.
func (s *tagService) ListUserTags(userID, search string) ([]models.Tag, error) {
	query := s.userTagsQuery(userID)
	if search != "" {
		query = query.Where("tags.name LIKE ?", "%"+search+"%")
	}

	var tags []models.Tag
	if err := query.Order("tags.name").Find(&tags).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tags, nil
}

// GetTagByID retrieves a tag by ID if it is reachable through the user's
// events. Unreachable tags report not-found, the same as nonexistent ones.
func (s *tagService) GetTagByID(userID, tagID string) (*models.Tag, error) {
	var tag models.Tag
	err := s.userTagsQuery(userID).Where("tags.id = ?", tagID).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTagNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tag, nil
}

// DetachTag removes the tag from all of the caller's events. The shared tag
// row stays: tags have no owner, so one user removing a label must not
// affect another user's events.
func (s *tagService) DetachTag(userID, tagID string) error {
	if _, err := s.GetTagByID(userID, tagID); err != nil {
		return err
	}

	err := s.db.Exec(
		`DELETE FROM event_tags WHERE tag_id = ? AND event_id IN (SELECT id FROM events WHERE user_id = ?)`,
		tagID, userID,
	).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
