package testutil

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"weddingbudget/internal/allocation"
	apperrors "weddingbudget/internal/errors"
	"weddingbudget/internal/models"
)

// AssertAppError checks that err is an *AppError with the expected code and
// returns it for further checks.
func AssertAppError(t *testing.T, err error, expectedCode string) *apperrors.AppError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
	return appErr
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertCategory checks a category's amount and rank in a result.
func AssertCategory(t *testing.T, result *allocation.Result, categoryID string, amount int64, rank int) {
	t.Helper()

	for _, c := range result.Categories {
		if c.ID != categoryID {
			continue
		}
		if c.Amount != amount || c.Rank != rank {
			t.Errorf("category %s: expected %d at rank %d, got %d at rank %d", categoryID, amount, rank, c.Amount, c.Rank)
		}
		return
	}
	t.Errorf("category %s missing from result", categoryID)
}

// AssertAuditEntry checks that exactly one audit entry with the action
// exists for the user and returns it.
func AssertAuditEntry(t *testing.T, db *gorm.DB, userID, action string) models.AuditLog {
	t.Helper()

	var entries []models.AuditLog
	if err := db.Where("user_id = ? AND action = ?", userID, action).Find(&entries).Error; err != nil {
		t.Fatalf("failed to load audit entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 %s audit entry for %s, got %d", action, userID, len(entries))
	}
	return entries[0]
}
