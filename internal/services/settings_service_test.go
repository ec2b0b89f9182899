package services

import (
	"testing"

	"lifeweeks/internal/models"
	"lifeweeks/internal/testutil"
)

func TestGetOrCreateSettings(t *testing.T) {
	t.Run("defaults_to_system_theme", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db)

		user := testutil.CreateTestUser(t, db)
		settings, err := svc.GetOrCreateSettings(user.ID)
		testutil.AssertNoError(t, err)
		if settings.Theme != models.ThemeSystem {
			t.Errorf("expected default theme system, got %s", settings.Theme)
		}

		again, err := svc.GetOrCreateSettings(user.ID)
		testutil.AssertNoError(t, err)
		if again.ID != settings.ID {
			t.Error("expected the same settings row on repeat fetch")
		}
	})
}

func TestUpdateSettings(t *testing.T) {
	t.Run("valid_themes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db)

		user := testutil.CreateTestUser(t, db)
		for _, theme := range []models.Theme{models.ThemeLight, models.ThemeDark, models.ThemeSystem} {
			settings, err := svc.UpdateSettings(user.ID, theme)
			testutil.AssertNoError(t, err)
			if settings.Theme != theme {
				t.Errorf("expected theme %s, got %s", theme, settings.Theme)
			}
		}
	})

	t.Run("invalid_theme", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.UpdateSettings(user.ID, models.Theme("neon"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("creates_row_when_missing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSettingsService(db)

		user := testutil.CreateTestUser(t, db)
		settings, err := svc.UpdateSettings(user.ID, models.ThemeDark)
		testutil.AssertNoError(t, err)
		if settings.Theme != models.ThemeDark {
			t.Errorf("expected theme dark, got %s", settings.Theme)
		}
	})
}
