package services

import (
	"testing"

	"lifeweeks/internal/middleware"
	"lifeweeks/internal/models"
	"lifeweeks/internal/testutil"
)

func TestRefresh(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		userSvc := NewUserService(db)
		svc := NewTokenService(db, userSvc)

		user := testutil.CreateTestUser(t, db)
		refresh, err := middleware.GenerateRefreshToken(user)
		testutil.AssertNoError(t, err)

		access, refreshedUser, err := svc.Refresh(refresh)
		testutil.AssertNoError(t, err)
		if access == "" {
			t.Fatal("expected a fresh access token")
		}
		if refreshedUser.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, refreshedUser.ID)
		}

		claims, err := middleware.ValidateAccessToken(access)
		testutil.AssertNoError(t, err)
		if claims.UserID != user.ID {
			t.Errorf("access token carries user %s, want %s", claims.UserID, user.ID)
		}
	})

	t.Run("garbage_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTokenService(db, NewUserService(db))

		_, _, err := svc.Refresh("not-a-jwt")
		testutil.AssertAppError(t, err, "TOKEN_INVALID")
	})

	t.Run("access_token_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTokenService(db, NewUserService(db))

		user := testutil.CreateTestUser(t, db)
		access, err := middleware.GenerateAccessToken(user)
		testutil.AssertNoError(t, err)

		_, _, err = svc.Refresh(access)
		testutil.AssertAppError(t, err, "TOKEN_INVALID")
	})

	t.Run("revoked_token_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTokenService(db, NewUserService(db))

		user := testutil.CreateTestUser(t, db)
		refresh, err := middleware.GenerateRefreshToken(user)
		testutil.AssertNoError(t, err)

		err = svc.Revoke(refresh)
		testutil.AssertNoError(t, err)

		_, _, err = svc.Refresh(refresh)
		testutil.AssertAppError(t, err, "TOKEN_INVALID")
	})

	t.Run("deleted_user_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTokenService(db, NewUserService(db))

		user := testutil.CreateTestUser(t, db)
		refresh, err := middleware.GenerateRefreshToken(user)
		testutil.AssertNoError(t, err)

		db.Delete(user)

		_, _, err = svc.Refresh(refresh)
		testutil.AssertAppError(t, err, "TOKEN_INVALID")
	})
}

func TestRevoke(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTokenService(db, NewUserService(db))

		user := testutil.CreateTestUser(t, db)
		refresh, err := middleware.GenerateRefreshToken(user)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.Revoke(refresh))
		testutil.AssertNoError(t, svc.Revoke(refresh))

		var count int64
		db.Model(&models.RevokedToken{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 revocation row, got %d", count)
		}
	})

	t.Run("invalid_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTokenService(db, NewUserService(db))

		err := svc.Revoke("not-a-jwt")
		testutil.AssertAppError(t, err, "TOKEN_INVALID")
	})
}

func TestIsRevoked(t *testing.T) {
	t.Run("reports_listed_tokens_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTokenService(db, NewUserService(db))

		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUserWithUsername(t, db, "other")
		listed, err := middleware.GenerateRefreshToken(user)
		testutil.AssertNoError(t, err)
		unlisted, err := middleware.GenerateRefreshToken(other)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.Revoke(listed))

		revoked, err := svc.IsRevoked(listed)
		testutil.AssertNoError(t, err)
		if !revoked {
			t.Error("expected listed token to be revoked")
		}

		revoked, err = svc.IsRevoked(unlisted)
		testutil.AssertNoError(t, err)
		if revoked {
			t.Error("expected unlisted token to not be revoked")
		}
	})
}
