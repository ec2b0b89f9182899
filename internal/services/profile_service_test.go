package services

import (
	"testing"
	"time"

	"lifeweeks/internal/testutil"
)

func TestGetOrCreateProfile(t *testing.T) {
	t.Run("creates_missing_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user := testutil.CreateTestUser(t, db)
		profile, err := svc.GetOrCreateProfile(user.ID)
		testutil.AssertNoError(t, err)
		if profile.UserID != user.ID {
			t.Errorf("expected profile for user %s, got %s", user.ID, profile.UserID)
		}

		again, err := svc.GetOrCreateProfile(user.ID)
		testutil.AssertNoError(t, err)
		if again.ID != profile.ID {
			t.Error("expected the same profile row on repeat fetch")
		}
	})
}

func TestGetProfileByID(t *testing.T) {
	t.Run("own_profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user := testutil.CreateTestUser(t, db)
		profile := testutil.CreateTestProfile(t, db, user.ID)

		found, err := svc.GetProfileByID(user.ID, profile.ID)
		testutil.AssertNoError(t, err)
		if found.ID != profile.ID {
			t.Errorf("expected profile %s, got %s", profile.ID, found.ID)
		}
	})

	t.Run("foreign_profile_hidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		owner := testutil.CreateTestUserWithUsername(t, db, "owner")
		intruder := testutil.CreateTestUserWithUsername(t, db, "intruder")
		profile := testutil.CreateTestProfile(t, db, owner.ID)

		_, err := svc.GetProfileByID(intruder.ID, profile.ID)
		testutil.AssertAppError(t, err, "PROFILE_NOT_FOUND")
	})
}

func TestListProfiles(t *testing.T) {
	t.Run("only_own", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		owner := testutil.CreateTestUserWithUsername(t, db, "owner")
		other := testutil.CreateTestUserWithUsername(t, db, "other")
		testutil.CreateTestProfile(t, db, owner.ID)
		testutil.CreateTestProfile(t, db, other.ID)

		profiles, err := svc.ListProfiles(owner.ID)
		testutil.AssertNoError(t, err)
		if len(profiles) != 1 || profiles[0].UserID != owner.ID {
			t.Errorf("expected only the owner's profile, got %v", profiles)
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("sets_birth_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		user := testutil.CreateTestUser(t, db)
		profile := testutil.CreateTestProfile(t, db, user.ID)

		birthDate := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
		updated, err := svc.UpdateProfile(user.ID, profile.ID, &birthDate)
		testutil.AssertNoError(t, err)
		if updated.BirthDate == nil || !updated.BirthDate.Equal(birthDate) {
			t.Errorf("expected birth date %v, got %v", birthDate, updated.BirthDate)
		}

		// Absent birth date leaves the stored value alone.
		unchanged, err := svc.UpdateProfile(user.ID, profile.ID, nil)
		testutil.AssertNoError(t, err)
		if unchanged.BirthDate == nil || !unchanged.BirthDate.Equal(birthDate) {
			t.Errorf("expected birth date unchanged, got %v", unchanged.BirthDate)
		}
	})

	t.Run("foreign_profile_hidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db)

		owner := testutil.CreateTestUserWithUsername(t, db, "owner")
		intruder := testutil.CreateTestUserWithUsername(t, db, "intruder")
		profile := testutil.CreateTestProfile(t, db, owner.ID)

		birthDate := time.Now()
		_, err := svc.UpdateProfile(intruder.ID, profile.ID, &birthDate)
		testutil.AssertAppError(t, err, "PROFILE_NOT_FOUND")
	})
}
