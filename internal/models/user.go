package models

import (
	"gorm.io/gorm"
)

// User is a staff member operating check-in desks or owning events.
type User struct {
	gorm.Model
	DiscordID   string `gorm:"uniqueIndex"`
	Username    string
	Email       string
	Avatar      string
	IsSuperuser bool `gorm:"not null;default:false"`
}

// CanManage reports whether the user may administer the event.
func (u User) CanManage(event Event) bool {
	return u.IsSuperuser || event.OwnerID == u.ID
}
