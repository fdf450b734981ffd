package models

// Role is carried in access tokens
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
)
