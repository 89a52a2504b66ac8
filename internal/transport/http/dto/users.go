package dto

import "github.com/baechuer/real-time-ressys/services/user-admin-service/internal/domain"

// UserRow is the wire shape of a user. The password hash never leaves the service.
type UserRow struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Enabled     bool   `json:"enabled"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Role        string `json:"role"`
	Sector      string `json:"sector,omitempty"`
	Locality    string `json:"locality,omitempty"`
	Version     int64  `json:"version"`
}

func ToUserRow(u domain.User) UserRow {
	row := UserRow{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Enabled:  u.Enabled,
		Role:     u.Role,
		Sector:   u.Sector,
		Locality: u.Locality,
		Version:  u.Version,
	}
	if u.DateOfBirth != nil {
		row.DateOfBirth = u.DateOfBirth.Format(domain.DateLayout)
	}
	return row
}

func ToUserRows(users []domain.User) []UserRow {
	out := make([]UserRow, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserRow(u))
	}
	return out
}

type UserPage struct {
	Items []UserRow `json:"items"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}
