package models

// Type classifies what a link key resolves to. Events are the only target
// today; the indirection keeps room for other shareable objects.
type Type struct {
	BaseModel
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string `gorm:"type:text"`
}

const (
	TypeNameEvent = "EVENT"
)
