package models

import (
	"time"
)

// Role is a member's role within an organization
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

type Organization struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	OwnerID        string    `json:"owner_id" db:"owner_id"`
	RootFolderID   string    `json:"root_folder_id" db:"root_folder_id"`
	InvitationCode string    `json:"invitation_code,omitempty" db:"invitation_code"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Membership links a user to an organization. (UserID, OrganizationID) is unique.
type Membership struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Role           Role      `json:"role" db:"role"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// OrganizationDetails is an organization with its root folder and members
type OrganizationDetails struct {
	Organization
	RootFolder *Folder      `json:"root_folder"`
	Members    []Membership `json:"members"`
}

// User is the slice of the externally owned user record this service touches
type User struct {
	ID          string    `json:"id" db:"id"`
	StorageUsed int64     `json:"storage_used" db:"storage_used"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
