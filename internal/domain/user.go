package domain

import "time"

type UserRole string

const (
	UserRoleRenter UserRole = "renter"
	UserRoleOwner  UserRole = "owner"
	UserRoleAdmin  UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleRenter, UserRoleOwner, UserRoleAdmin:
		return true
	}
	return false
}

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationVerified   VerificationStatus = "verified"
)

type User struct {
	ID                 int32              `json:"id"`
	Email              string             `json:"email"`
	PasswordHash       string             `json:"-"`
	Role               UserRole           `json:"role"`
	FirstName          string             `json:"first_name"`
	LastName           string             `json:"last_name"`
	Phone              string             `json:"phone"`
	Address            string             `json:"address"`
	Location           string             `json:"location"`
	ProfilePicURL      string             `json:"profile_pic_url"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedOn          time.Time          `json:"created_on"`
	UpdatedOn          time.Time          `json:"updated_on"`
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// PartyRef is the public view of another user shown in chat and listings.
type PartyRef struct {
	ID            int32  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID int32
	Role   UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == UserRoleAdmin }

// Anonymous reports whether no one is logged in.
func (a Actor) Anonymous() bool { return a.UserID == 0 }
