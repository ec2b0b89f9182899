package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/models"
)

// orderableFields is the whitelist of fields the list endpoint may order by.
var orderableFields = map[string]bool{
	"week_index":  true,
	"day_of_week": true,
	"created_at":  true,
}

// defaultEventOrder places events on the calendar grid: week first, then day.
const defaultEventOrder = "week_index, day_of_week"

// eventService handles event-related business logic.
type eventService struct {
	db         *gorm.DB
	tagService TagServicer
}

// NewEventService creates a new EventServicer.
func NewEventService(db *gorm.DB, tagService TagServicer) EventServicer {
	return &eventService{db: db, tagService: tagService}
}

// validateBounds checks the calendar grid position.
func validateBounds(weekIndex, dayOfWeek int) error {
	if weekIndex < 0 || weekIndex > models.MaxWeekIndex {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("week_index must be between 0 and %d", models.MaxWeekIndex))
	}
	if dayOfWeek < 0 || dayOfWeek > models.MaxDayOfWeek {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("day_of_week must be between 0 and %d", models.MaxDayOfWeek))
	}
	return nil
}

// resolveTags maps tag inputs to tag rows, creating missing ones by name.
func (s *eventService) resolveTags(inputs []TagInput) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(inputs))
	for _, input := range inputs {
		tag, err := s.tagService.GetOrCreateTag(input.Name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// CreateEvent creates a new event for the user. The owner always comes from
// the authenticated context, never from the payload. Nested tags are
// resolved against the global tag set by name.
func (s *eventService) CreateEvent(userID string, input EventInput) (*models.Event, error) {
	if input.Title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if len(input.Title) > 200 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title must be at most 200 characters")
	}
	if input.Icon == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "icon is required")
	}
	if err := validateBounds(input.WeekIndex, input.DayOfWeek); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(input.Tags)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		UserID:      userID,
		WeekIndex:   input.WeekIndex,
		DayOfWeek:   input.DayOfWeek,
		Title:       input.Title,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
		Tags:        tags,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(event).Error
	}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return event, nil
}

// ListEvents retrieves the caller's events, optionally filtered by grid
// position, free-text search across title/description/tag name, and ordered
// by a whitelisted field. The full owned set is returned unpaginated.
func (s *eventService) ListEvents(userID string, filter EventFilter) ([]models.Event, error) {
	query := s.db.Model(&models.Event{}).Where("events.user_id = ?", userID)

	if filter.WeekIndex != nil {
		query = query.Where("events.week_index = ?", *filter.WeekIndex)
	}
	if filter.DayOfWeek != nil {
		query = query.Where("events.day_of_week = ?", *filter.DayOfWeek)
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.
			Joins("LEFT JOIN event_tags ON event_tags.event_id = events.id").
			Joins("LEFT JOIN tags ON tags.id = event_tags.tag_id").
			Where("events.title LIKE ? OR events.description LIKE ? OR tags.name LIKE ?", like, like, like).
			Distinct("events.*")
	}

	var events []models.Event
	if err := query.Order(resolveOrdering(filter.Ordering)).Preload("Tags").Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return events, nil
}

// resolveOrdering maps an ordering parameter onto the whitelist. A leading
// '-' requests descending order. Fields outside the whitelist are dropped
// and the default order applies.
func resolveOrdering(ordering string) string {
	field := ordering
	desc := false
	if strings.HasPrefix(field, "-") {
		field = field[1:]
		desc = true
	}
	if !orderableFields[field] {
		return defaultEventOrder
	}
	if desc {
		return field + " DESC"
	}
	return field
}

// GetEventByID retrieves an event by ID for a specific user. Events owned
// by other users report not-found so existence is never confirmed.
func (s *eventService) GetEventByID(userID, eventID string) (*models.Event, error) {
	var event models.Event
	if err := s.db.Preload("Tags").Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &event, nil
}

// UpdateEvent applies a partial update to an owned event. When tag data is
// supplied the entire tag set is replaced (clear, then re-add); an absent
// tag field leaves existing associations untouched.
func (s *eventService) UpdateEvent(userID, eventID string, patch EventPatch) (*models.Event, error) {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return nil, err
	}

	weekIndex := event.WeekIndex
	if patch.WeekIndex != nil {
		weekIndex = *patch.WeekIndex
	}
	dayOfWeek := event.DayOfWeek
	if patch.DayOfWeek != nil {
		dayOfWeek = *patch.DayOfWeek
	}
	if err := validateBounds(weekIndex, dayOfWeek); err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title cannot be empty")
		}
		if len(*patch.Title) > 200 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title must be at most 200 characters")
		}
	}

	updates := make(map[string]interface{})
	if patch.WeekIndex != nil {
		updates["week_index"] = *patch.WeekIndex
	}
	if patch.DayOfWeek != nil {
		updates["day_of_week"] = *patch.DayOfWeek
	}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Icon != nil {
		updates["icon"] = *patch.Icon
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}

	var newTags []models.Tag
	if patch.Tags != nil {
		newTags, err = s.resolveTags(*patch.Tags)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(event).Updates(updates).Error; err != nil {
				return err
			}
		}
		if patch.Tags != nil {
			if err := tx.Model(event).Association("Tags").Clear(); err != nil {
				return err
			}
			if len(newTags) > 0 {
				if err := tx.Model(event).Association("Tags").Append(&newTags); err != nil {
					return err
				}
			}
			event.Tags = newTags
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return event, nil
}

// DeleteEvent removes an owned event and its tag associations. The shared
// tag rows themselves are left in place.
func (s *eventService) DeleteEvent(userID, eventID string) error {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(event).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// WeekRange retrieves owned events with week_index in [startWeek, endWeek]
// inclusive, in default calendar order. Both bounds are required.
func (s *eventService) WeekRange(userID string, startWeek, endWeek *int) ([]models.Event, error) {
	if startWeek == nil || endWeek == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"Both start_week and end_week parameters are required")
	}

	var events []models.Event
	err := s.db.Where("user_id = ? AND week_index >= ? AND week_index <= ?", userID, *startWeek, *endWeek).
		Order(defaultEventOrder).
		Preload("Tags").
		Find(&events).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return events, nil
}
