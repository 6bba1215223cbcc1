package models

// Link binds a short opaque key to a typed target and its owner. The key is
// what gets shared: envitefy.link/<key>.
type Link struct {
	BaseModel
	Key           string `gorm:"type:varchar(11);uniqueIndex;not null"`
	TypeID        uint   `gorm:"not null;index"`
	TargetID      uint   `gorm:"not null;index:idx_link_target"`
	CreatorUserID uint   `gorm:"index;not null"`

	Type    Type `gorm:"foreignKey:TypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Creator User `gorm:"foreignKey:CreatorUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}
