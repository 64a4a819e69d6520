package models

import "time"

// User represents a dashboard operator. Users are created by seeding only;
// there is no self-service registration.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	Password  string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash
	Role      string    `json:"role" gorm:"type:varchar(32)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
