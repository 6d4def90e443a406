package services

import (
	"context"

	"weddingbudget/internal/allocation"
	"weddingbudget/internal/models"
	"weddingbudget/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// BudgetServicer defines the contract for wedding budget calculations.
type BudgetServicer interface {
	Options() BudgetOptions
	ValidateStep(key string, payload []byte) (allocation.Step, error)
	Calculate(ctx context.Context, userID string, in allocation.Input) (*allocation.Result, error)
	ListCalculations(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetCalculation], error)
	GetCalculation(userID, calculationID string) (*CalculationDetail, error)
	DeleteCalculation(userID, calculationID string) error
	Wait()
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
