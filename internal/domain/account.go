package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient     Role = "CLIENT"
	RoleStaff      Role = "STAFF"
	RoleSuperStaff Role = "SUPER_STAFF"
)

// DefaultPictureURL is served when an account has no uploaded picture.
const DefaultPictureURL = "/static/profiles/default.png"

const defaultPicturePublicID = "profiles/default"

type Account struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Role      Role

	ProfilePictureURL      string
	ProfilePicturePublicID string
	PassportNumber         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

func (a *Account) PictureURL() string {
	if a.ProfilePictureURL == "" || a.ProfilePicturePublicID == defaultPicturePublicID {
		return DefaultPictureURL
	}
	return a.ProfilePictureURL
}
