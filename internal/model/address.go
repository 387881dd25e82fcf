package model

// Address 顾客收货地址
type Address struct {
	ID            int64  `json:"addressId" gorm:"primaryKey"`
	UserID        int64  `json:"userId" gorm:"index;not null"`
	RecipientName string `json:"recipientName" gorm:"type:varchar(64);not null"`
	Phone         string `json:"phoneNumber" gorm:"type:varchar(20);not null"`
	FullAddress   string `json:"fullAddress" gorm:"type:varchar(255);not null"`
	IsDefault     bool   `json:"isDefault"`
}

func (Address) TableName() string { return "addresses" }
