package domain

import "time"

// DateLayout is the wire and form representation of DateOfBirth.
const DateLayout = "2006-01-02"

type User struct {
	ID           int64
	Username     string
	FullName     string
	Email        string
	PasswordHash string
	Enabled      bool
	DateOfBirth  *time.Time
	Role         string
	Sector       string
	Locality     string

	// Version is compared-and-swapped on every update.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsNew reports whether the record has not been persisted yet.
func (u User) IsNew() bool { return u.ID == 0 }

// Clone returns a copy that shares no pointers with u.
func (u User) Clone() User {
	c := u
	if u.DateOfBirth != nil {
		d := *u.DateOfBirth
		c.DateOfBirth = &d
	}
	return c
}
