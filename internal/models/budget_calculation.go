package models

import (
	"encoding/json"

	"weddingbudget/internal/allocation"
)

// BudgetCalculation is a persisted allocation result tagged with its owner.
// The input columns are kept queryable; the full result is stored as an
// opaque JSON document.
type BudgetCalculation struct {
	Base
	UserID               string `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalBudget          int64  `gorm:"not null" json:"total_budget"`
	GuestCount           int    `gorm:"not null" json:"guest_count"`
	VenueType            string `gorm:"size:50;not null" json:"venue_type"`
	Style                string `gorm:"size:50;not null" json:"style"`
	Season               string `gorm:"size:20;not null" json:"season"`
	Efficiency           string `gorm:"size:20;not null" json:"efficiency"`
	RecommendationSource string `gorm:"size:20;not null" json:"recommendation_source"`
	Result               string `gorm:"type:text;not null" json:"-"`
}

// NewBudgetCalculation snapshots a calculation for persistence.
func NewBudgetCalculation(userID string, in allocation.Input, result *allocation.Result) (*BudgetCalculation, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &BudgetCalculation{
		UserID:               userID,
		TotalBudget:          in.TotalBudget,
		GuestCount:           in.GuestCount,
		VenueType:            in.VenueType,
		Style:                in.Style,
		Season:               in.Season,
		Efficiency:           string(result.Efficiency),
		RecommendationSource: result.RecommendationSource,
		Result:               string(raw),
	}, nil
}

// Decode returns the stored result document.
func (c *BudgetCalculation) Decode() (*allocation.Result, error) {
	var result allocation.Result
	if err := json.Unmarshal([]byte(c.Result), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
