package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ResponseStatus mirrors the claim policy outcomes.
type ResponseStatus string

const (
	ResponseStatusConfirmed  ResponseStatus = "confirmed"
	ResponseStatusWaitlisted ResponseStatus = "waitlisted"
)

// SignupResponse records one guest claim against one slot. Section and slot
// ids refer into the event's signup form JSON, so there is no foreign key
// for them; the event row lock keeps them consistent.
type SignupResponse struct {
	BaseModel
	EventID   uint   `gorm:"not null;index:idx_response_event_slot"`
	SectionID string `gorm:"type:varchar(64);not null"`
	SlotID    string `gorm:"type:varchar(64);not null;index:idx_response_event_slot"`

	GuestName  string `gorm:"type:varchar(150);not null"`
	GuestEmail string `gorm:"type:varchar(150);index"`
	GuestPhone string `gorm:"type:varchar(30)"`

	Quantity    int            `gorm:"type:integer;not null;default:1"`
	Status      ResponseStatus `gorm:"type:varchar(20);not null;index"`
	Answers     AnswerMap      `gorm:"type:jsonb"`
	RespondedAt time.Time      `gorm:"type:timestamptz"`
}

// AnswerMap stores question id → answer as JSONB.
type AnswerMap map[string]string

func (m AnswerMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("answer map marshal: %w", err)
	}
	return string(b), nil
}

func (m *AnswerMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("answer map scan: unsupported column type")
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(data, m)
}

func (AnswerMap) GormDataType() string {
	return "jsonb"
}
