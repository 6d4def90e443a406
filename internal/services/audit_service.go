package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"weddingbudget/internal/logger"
	"weddingbudget/internal/models"
)

// Audited actions.
const (
	AuditActionRegister          = "REGISTER"
	AuditActionLogin             = "LOGIN"
	AuditActionCalculateBudget   = "CALCULATE_BUDGET"
	AuditActionDeleteCalculation = "DELETE_CALCULATION"
)

// Audited resource types.
const (
	AuditResourceUser        = "user"
	AuditResourceCalculation = "budget_calculation"
)

// auditService records who did what to which user or calculation.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Anonymous callers have nothing to attribute
// and are skipped. Write errors are logged and never returned.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	log := logger.Get().With(
		"user_id", userID,
		"action", action,
		"resource_type", resourceType,
		"resource_id", resourceID,
	)
	if userID == "" {
		log.Debug("skipping audit entry without user")
		return
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(changes),
	}
	if err := s.db.Create(entry).Error; err != nil {
		log.Errorw("failed to create audit log entry", "error", err)
	}
}

// encodeChanges renders the change set as JSON, "{}" when it cannot be
// encoded and "" when there is none.
func encodeChanges(changes map[string]any) string {
	if changes == nil {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Get().Errorw("failed to marshal audit log changes", "error", err)
		return "{}"
	}
	return string(data)
}
