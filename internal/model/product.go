package model

import "github.com/shopspring/decimal"

// Product 商品（历史上称为 Food），归属唯一商家
type Product struct {
	ID          int64           `json:"productId" gorm:"primaryKey"`
	MerchantID  int64           `json:"merchantId" gorm:"index;not null"`
	CategoryID  *int64          `json:"categoryId,omitempty" gorm:"index"`
	Name        string          `json:"productName" gorm:"type:varchar(100);not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	IsAvailable bool            `json:"isAvailable" gorm:"not null"`
	ImageURL    string          `json:"imageUrl,omitempty" gorm:"type:varchar(255)"`
}

func (Product) TableName() string { return "products" }

// Category 商品分类
type Category struct {
	ID   int64  `json:"categoryId" gorm:"primaryKey"`
	Name string `json:"categoryName" gorm:"type:varchar(64);uniqueIndex;not null"`
}

func (Category) TableName() string { return "categories" }
