package domain

import (
	"time"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
)

// User field names.
const (
	UserFieldUserName             = "user_name"
	UserFieldEmail                = "email"
	UserFieldPassword             = "password"
	UserFieldIsAdmin              = "is_admin"
	UserFieldDefaultPW            = "default_pw"
	UserFieldToken                = "token"
	UserFieldSessionID            = "session_id"
	UserFieldTokenExpiredAt       = "token_expired_at"
	UserFieldResetPasswordToken   = "reset_password_token"
	UserFieldResetPasswordExpires = "reset_password_expires"
	UserFieldLastLoginAt          = "last_login_at"
	UserFieldBusinessID           = "business_id"
)

// User is an account that can authenticate against the API.
type User struct {
	docstore.Model `bson:",inline"`
	BusinessID     string `json:"business_id" bson:"business_id"`
	UserName       string `json:"user_name" bson:"user_name"`
	Email          string `json:"email,omitempty" bson:"email,omitempty"`
	Phone          string `json:"phone,omitempty" bson:"phone,omitempty"`
	FirstName      string `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Fullname       string `json:"fullname,omitempty" bson:"fullname,omitempty"`
	Address        string `json:"address,omitempty" bson:"address,omitempty"`
	Avatar         string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Password       string `json:"-" bson:"password"`
	IsAdmin        bool   `json:"is_admin" bson:"is_admin"`
	IsActive       bool   `json:"is_active" bson:"is_active"`
	IsDelete       bool   `json:"is_delete" bson:"is_delete"`
	DefaultPW      bool   `json:"default_pw" bson:"default_pw"`

	Token                string     `json:"-" bson:"token,omitempty"`
	SessionID            string     `json:"-" bson:"session_id,omitempty"`
	TokenExpiredAt       *time.Time `json:"token_expired_at,omitempty" bson:"token_expired_at,omitempty"`
	ResetPasswordToken   string     `json:"-" bson:"reset_password_token,omitempty"`
	ResetPasswordExpires *time.Time `json:"-" bson:"reset_password_expires,omitempty"`
	LastLoginAt          *time.Time `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
}

// DisplayName returns the full name, falling back to first and last name and
// then the user name.
func (u *User) DisplayName() string {
	if u.Fullname != "" {
		return u.Fullname
	}
	if n := joinName(u.FirstName, u.LastName); n != "" {
		return n
	}
	return u.UserName
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
