package models

import (
	"time"
)

const (
	// RoleAdmin 管理员：可管理用户
	RoleAdmin = "admin"
	// RoleUser 普通用户
	RoleUser = "user"
)

// 预置用户ID，不可删除，用户名与角色不可修改
const (
	ReservedAdminID = "1"
	ReservedGuestID = "2"
)

// User 用户模型
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:20"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	Role      string    `json:"role" gorm:"size:20;not null;default:user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsReserved 是否为预置用户
func (u *User) IsReserved() bool {
	return IsReservedUserID(u.ID)
}

// IsReservedUserID 判断ID是否属于预置用户
func IsReservedUserID(id string) bool {
	return id == ReservedAdminID || id == ReservedGuestID
}

// IsValidRole 是否为合法角色
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
