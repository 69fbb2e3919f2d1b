package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID        string
	Username  string
	Password  string
	Email     string
	FullName  string
	Phone     string
	Role      UserRole
	CreatedAt time.Time
}
