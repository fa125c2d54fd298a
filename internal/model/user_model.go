package model

import (
	"time"
)

type User struct {
	Id           uint      `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName  string    `gorm:"type:varchar(255);not null"`
	PasswordHash *string   `gorm:"type:varchar(255)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserNoteState struct {
	UserId        uint  `gorm:"primaryKey;autoIncrement:false"`
	User          *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	NoteId        uint  `gorm:"primaryKey;autoIncrement:false"`
	Note          *Note `gorm:"foreignKey:NoteId;constraint:OnDelete:CASCADE"`
	IsPinned      bool  `gorm:"not null"`
	LastVisitedAt *time.Time
}

func (UserNoteState) TableName() string {
	return "user_note_states"
}
