package model

// Merchant 商家，与商家类型用户一对一
type Merchant struct {
	ID           int64  `json:"merchantId" gorm:"primaryKey"`
	UserID       int64  `json:"userId" gorm:"uniqueIndex;not null"`
	ShopName     string `json:"shopName" gorm:"type:varchar(100);not null"`
	ShopAddress  string `json:"shopAddress" gorm:"type:varchar(255)"`
	ContactPhone string `json:"contactPhone" gorm:"type:varchar(20)"`
	ShopIntro    string `json:"shopIntro,omitempty" gorm:"type:text"`
	LogoURL      string `json:"logoUrl,omitempty" gorm:"type:varchar(255)"`
}

func (Merchant) TableName() string { return "merchants" }
