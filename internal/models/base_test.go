package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"weddingbudget/internal/uuid"
)

func TestBase_BeforeCreate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    string
		wantErr bool
	}{
		{name: "generates v7 key", id: ""},
		{name: "keeps canonical key", id: "0190f3a2-7b1c-7d4e-8f00-123456789abc", want: "0190f3a2-7b1c-7d4e-8f00-123456789abc"},
		{name: "lowercases key", id: "0190F3A2-7B1C-7D4E-8F00-123456789ABC", want: "0190f3a2-7b1c-7d4e-8f00-123456789abc"},
		{name: "rejects non-uuid key", id: "calc-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Base{ID: tt.id}
			err := b.BeforeCreate(nil)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.id)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want == "" {
				if _, ok := uuid.CreatedAt(b.ID); !ok {
					t.Errorf("expected generated UUIDv7, got %s", b.ID)
				}
				return
			}
			if b.ID != tt.want {
				t.Errorf("expected %s, got %s", tt.want, b.ID)
			}
		})
	}
}

func TestBase_HidesDeletedAt(t *testing.T) {
	calc := BudgetCalculation{Base: Base{
		ID:        "0190f3a2-7b1c-7d4e-8f00-123456789abc",
		DeletedAt: gorm.DeletedAt{Time: time.Now(), Valid: true},
	}}
	raw, err := json.Marshal(calc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(raw), "deleted_at") {
		t.Errorf("expected deleted_at to be hidden, got %s", raw)
	}
}
