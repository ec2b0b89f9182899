package services

import (
	"gorm.io/gorm"

	apperrors "lifeweeks/internal/errors"
	"lifeweeks/internal/models"
)

// dashboardService composes a read-only summary of a user's data. It has no
// logic of its own beyond query composition; any underlying failure surfaces
// as a single aggregation error rather than partial data.
type dashboardService struct {
	db          *gorm.DB
	userService UserServicer
	tagService  TagServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB, userService UserServicer, tagService TagServicer) DashboardServicer {
	return &dashboardService{db: db, userService: userService, tagService: tagService}
}

// Summary returns the user's five most recent events, their tag set, and
// total counts.
func (s *dashboardService) Summary(userID string) (*DashboardSummary, error) {
	user, err := s.userService.GetUserByID(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAggregationFailed, err)
	}

	var recentEvents []models.Event
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Preload("Tags").
		Find(&recentEvents).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAggregationFailed, err)
	}

	tags, err := s.tagService.ListUserTags(userID, "")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAggregationFailed, err)
	}

	var totalEvents int64
	if err := s.db.Model(&models.Event{}).Where("user_id = ?", userID).Count(&totalEvents).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAggregationFailed, err)
	}

	return &DashboardSummary{
		User:         user,
		RecentEvents: recentEvents,
		Tags:         tags,
		TotalEvents:  totalEvents,
		TotalTags:    int64(len(tags)),
	}, nil
}
