package model

import "time"

// User represents an account stored in the database. The password hash is
// never serialized into API responses.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"type:varchar(30);uniqueIndex"`
	Email          string    `json:"email" gorm:"type:varchar(256);uniqueIndex"`
	HashedPassword string    `json:"-" gorm:"type:varchar(64)"`
	FirstName      string    `json:"firstName" gorm:"type:varchar(50)"`
	LastName       string    `json:"lastName" gorm:"type:varchar(50)"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SafeUser is the subset of User exposed in session and signup responses.
type SafeUser struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Safe returns the response-safe projection of the user.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
