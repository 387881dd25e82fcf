package model

import "time"

// UserType 用户类型，注册后不可变
type UserType int8

const (
	UserTypeCustomer UserType = 0
	UserTypeMerchant UserType = 1
	UserTypeAdmin    UserType = 2
)

func (t UserType) Valid() bool { return t >= UserTypeCustomer && t <= UserTypeAdmin }

// User 用户
type User struct {
	ID           int64     `json:"userId" gorm:"primaryKey"`
	Name         string    `json:"userName" gorm:"type:varchar(64);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(100);not null"`
	Phone        string    `json:"phoneNumber" gorm:"type:varchar(20);uniqueIndex;not null"`
	Address      string    `json:"address" gorm:"type:varchar(255)"`
	Type         UserType  `json:"userType" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }
