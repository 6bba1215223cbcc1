package models

// User is an event creator account. IsSystem marks the seeded operator
// account that may act on any event.
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(150);not null"`
	Email        string `gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsSystem     bool   `gorm:"default:false"`
}
