package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"weddingbudget/internal/allocation"
	"weddingbudget/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// TestInput returns a complete, valid wizard input.
func TestInput() allocation.Input {
	return allocation.Input{
		TotalBudget: 15000,
		GuestCount:  80,
		VenueType:   "hotel",
		Style:       "elegant",
		Season:      "summer",
	}
}

// CreateTestCalculation stores a calculation computed with the default tables.
func CreateTestCalculation(t *testing.T, db *gorm.DB, userID string, in allocation.Input) *models.BudgetCalculation {
	t.Helper()

	engine, err := allocation.NewEngine(allocation.DefaultTables(), nil)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	calc, err := models.NewBudgetCalculation(userID, in, engine.Calculate(in))
	if err != nil {
		t.Fatalf("failed to snapshot calculation: %v", err)
	}
	if err := db.Create(calc).Error; err != nil {
		t.Fatalf("failed to create test calculation: %v", err)
	}
	return calc
}
