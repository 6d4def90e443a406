package services

import (
	"testing"

	"weddingbudget/internal/models"
	"weddingbudget/internal/testutil"
	"weddingbudget/internal/uuid"
)

func TestAuditLog(t *testing.T) {
	t.Run("records_calculation_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)

		user := testutil.CreateTestUser(t, db)
		calc := testutil.CreateTestCalculation(t, db, user.ID, testutil.TestInput())
		svc.Log(user.ID, AuditActionDeleteCalculation, AuditResourceCalculation, calc.ID, "127.0.0.1",
			map[string]interface{}{"efficiency": calc.Efficiency})

		entry := testutil.AssertAuditEntry(t, db, user.ID, AuditActionDeleteCalculation)
		if entry.ResourceID != calc.ID || entry.ResourceType != AuditResourceCalculation {
			t.Errorf("unexpected entry: %+v", entry)
		}
		if entry.Changes != `{"efficiency":"medium"}` {
			t.Errorf("unexpected changes: %s", entry.Changes)
		}
	})

	t.Run("unmarshalable_changes_still_recorded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)

		userID := uuid.New()
		svc.Log(userID, AuditActionCalculateBudget, AuditResourceCalculation, "", "", map[string]interface{}{"bad": make(chan int)})

		entry := testutil.AssertAuditEntry(t, db, userID, AuditActionCalculateBudget)
		if entry.Changes != "{}" {
			t.Errorf("expected placeholder changes, got %s", entry.Changes)
		}
	})

	t.Run("anonymous_skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)

		svc.Log("", AuditActionCalculateBudget, AuditResourceCalculation, "", "", nil)

		var n int64
		testutil.AssertNoError(t, db.Model(&models.AuditLog{}).Count(&n).Error)
		if n != 0 {
			t.Errorf("expected no audit entries, got %d", n)
		}
	})
}
