package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"envitefy.link/pkg/signup"
)

// Event is the slim root record behind a shareable link. Everything a guest
// sees lives on EventDetail.
type Event struct {
	BaseModel
	LinkID        uint `gorm:"uniqueIndex;not null"`
	CreatorUserID uint `gorm:"index;not null"`
	IsEnabled     bool `gorm:"default:true;index"`

	Link      Link             `gorm:"foreignKey:LinkID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Detail    EventDetail      `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Responses []SignupResponse `gorm:"foreignKey:EventID"`
}

// EventDetail carries the normalized event data the calendar-link builder
// consumes, plus the sign-up sheet as an opaque JSON column.
type EventDetail struct {
	BaseModel
	EventID uint `gorm:"uniqueIndex;not null"`

	Title        string       `gorm:"type:varchar(255);not null"`
	Description  string       `gorm:"type:text"`
	StartsAt     time.Time    `gorm:"index;type:timestamptz"`
	EndsAt       *time.Time   `gorm:"type:timestamptz"`
	AllDay       bool         `gorm:"type:boolean;default:false"`
	Timezone     string       `gorm:"type:varchar(50);default:'UTC'"`
	Venue        string       `gorm:"type:varchar(255)"`
	LocationText string       `gorm:"type:varchar(255)"`
	LocationURL  string       `gorm:"type:varchar(500)"`
	Theme        string       `gorm:"type:varchar(50)"`
	Recurrence   string       `gorm:"type:varchar(255)"` // RRULE text, empty when one-off
	Reminders    ReminderList `gorm:"type:jsonb"`
	PasswordHash string       `gorm:"type:varchar(255)"`
	ExpiresAt    *time.Time   `gorm:"index;type:timestamptz"`

	SignupForm *signup.Form `gorm:"type:jsonb"`
}

// Reminder is a lead time before the event start.
type Reminder struct {
	Minutes int `json:"minutes"`
}

// ReminderList stores the reminder sequence as a JSONB column.
type ReminderList []Reminder

func (l ReminderList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("reminder list marshal: %w", err)
	}
	return string(b), nil
}

func (l *ReminderList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("reminder list scan: unsupported column type")
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

func (ReminderList) GormDataType() string {
	return "jsonb"
}

// Minutes flattens the list for link building.
func (l ReminderList) Minutes() []int {
	out := make([]int, 0, len(l))
	for _, r := range l {
		if r.Minutes > 0 {
			out = append(out, r.Minutes)
		}
	}
	return out
}
