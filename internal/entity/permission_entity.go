package entity

const (
	SpecialGroupEveryone = "_EVERYONE"
	SpecialGroupLoggedIn = "_LOGGED_IN"
)

type Group struct {
	Id          uint
	Name        string
	DisplayName string
	IsSpecial   bool
}

type GroupPermission struct {
	NoteId    uint
	GroupId   uint
	GroupName string // filled on reads only
	CanEdit   bool
}

type UserPermission struct {
	NoteId   uint
	UserId   uint
	Username string // filled on reads only
	CanEdit  bool
}
