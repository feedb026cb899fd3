package entity

import "time"

const (
	AuthorityUser  = "ROLE_USER"
	AuthorityAdmin = "ROLE_ADMIN"
)

type User struct {
	ID            int64
	Login         string
	Email         string
	LangKey       string
	PasswordHash  string
	ActivationKey string
	Activated     bool
	Authorities   []string
	CreatedAt     time.Time
	ActivatedAt   *time.Time
}

type PublicUser struct {
	ID    int64
	Login string
}
