package services

import (
	"fmt"
	"testing"

	"lifeweeks/internal/models"
	"lifeweeks/internal/testutil"
)

func TestDashboardSummary(t *testing.T) {
	t.Run("aggregates_user_events_and_tags", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		userSvc := NewUserService(db)
		tagSvc := NewTagService(db)
		eventSvc := NewEventService(db, tagSvc)
		svc := NewDashboardService(db, userSvc, tagSvc)

		user := testutil.CreateTestUser(t, db)
		for i := 0; i < 7; i++ {
			_, err := eventSvc.CreateEvent(user.ID, EventInput{
				WeekIndex: i,
				DayOfWeek: i % 7,
				Title:     fmt.Sprintf("event-%d", i),
				Icon:      "star",
				Tags:      []TagInput{{Name: fmt.Sprintf("tag-%d", i%3)}},
			})
			testutil.AssertNoError(t, err)
		}

		summary, err := svc.Summary(user.ID)
		testutil.AssertNoError(t, err)

		if summary.User.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, summary.User.ID)
		}
		if summary.TotalEvents != 7 {
			t.Errorf("expected 7 total events, got %d", summary.TotalEvents)
		}
		if len(summary.RecentEvents) != 5 {
			t.Errorf("expected 5 recent events, got %d", len(summary.RecentEvents))
		}
		if len(summary.Tags) != 3 {
			t.Errorf("expected 3 distinct tags, got %d", len(summary.Tags))
		}
		for _, event := range summary.RecentEvents {
			if len(event.Tags) == 0 {
				t.Error("expected recent events to carry their tags")
			}
		}
	})

	t.Run("empty_calendar", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db, NewUserService(db), NewTagService(db))

		user := testutil.CreateTestUser(t, db)
		summary, err := svc.Summary(user.ID)
		testutil.AssertNoError(t, err)
		if summary.TotalEvents != 0 || len(summary.RecentEvents) != 0 || len(summary.Tags) != 0 {
			t.Errorf("expected an empty summary, got %+v", summary)
		}
	})

	t.Run("scoped_to_caller", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db, NewUserService(db), NewTagService(db))

		owner := testutil.CreateTestUserWithUsername(t, db, "owner")
		other := testutil.CreateTestUserWithUsername(t, db, "other")
		tag := testutil.CreateTestTag(t, db)
		testutil.CreateTestEventWithTags(t, db, other.ID, 1, 1, []models.Tag{*tag})

		summary, err := svc.Summary(owner.ID)
		testutil.AssertNoError(t, err)
		if summary.TotalEvents != 0 || len(summary.Tags) != 0 {
			t.Errorf("expected nothing from the other user's calendar, got %+v", summary)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db, NewUserService(db), NewTagService(db))

		_, err := svc.Summary("019098aa-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "AGGREGATION_FAILED")
	})
}
