package models

import "time"

type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Mobile       string     `json:"mobile"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"` // не отдаём наружу
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	DateJoined   time.Time  `json:"date_joined"`

	// заполняется только в админке
	Groups []*Group `json:"groups,omitempty"`
}

type Group struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	NumUsers    int           `json:"num_users,omitempty"`
	Permissions []*Permission `json:"permissions,omitempty"`
}

type Permission struct {
	ID       int    `json:"id"`
	Codename string `json:"codename"`
	Name     string `json:"name"`
}

type RegisterRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	PasswordRepeat string `json:"password_repeat"`
	Mobile         string `json:"mobile"`
	SmsCode        string `json:"sms_code"`
	Email          string `json:"email"`
}

type LoginRequest struct {
	UserAccount string `json:"user_account"`
	Password    string `json:"password"`
	RememberMe  bool   `json:"remember_me"`
}

type SmsCodeRequest struct {
	Mobile      string `json:"mobile"`
	Text        string `json:"text"`
	ImageCodeID string `json:"image_code_id"`
}

// UserForm is the admin edit payload; flags arrive as 0/1.
type UserForm struct {
	Groups      []int `json:"groups"`
	IsStaff     int   `json:"is_staff"`
	IsSuperuser int   `json:"is_superuser"`
	IsActive    int   `json:"is_active"`
}

type GroupForm struct {
	Name        string `json:"name"`
	Permissions []int  `json:"permissions"`
}
