package model

type Group struct {
	Id          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName string `gorm:"type:varchar(255);not null"`
	IsSpecial   bool   `gorm:"not null"`
}

func (Group) TableName() string {
	return "permission_groups"
}

type GroupPermission struct {
	NoteId  uint   `gorm:"primaryKey;autoIncrement:false"`
	Note    *Note  `gorm:"foreignKey:NoteId;constraint:OnDelete:CASCADE"`
	GroupId uint   `gorm:"primaryKey;autoIncrement:false"`
	Group   *Group `gorm:"foreignKey:GroupId;constraint:OnDelete:CASCADE"`
	CanEdit bool   `gorm:"not null"`
}

func (GroupPermission) TableName() string {
	return "group_permissions"
}

type UserPermission struct {
	NoteId  uint  `gorm:"primaryKey;autoIncrement:false"`
	Note    *Note `gorm:"foreignKey:NoteId;constraint:OnDelete:CASCADE"`
	UserId  uint  `gorm:"primaryKey;autoIncrement:false"`
	User    *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	CanEdit bool  `gorm:"not null"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Group{},
		&Note{},
		&Alias{},
		&Revision{},
		&RevisionTag{},
		&GroupPermission{},
		&UserPermission{},
		&UserNoteState{},
	}
}
