package repository

import "gorm.io/gorm"

// Repositories 聚合全部仓储，便于在 service 层按需取用
type Repositories struct {
	Users      UserRepository
	Merchants  MerchantRepository
	Products   ProductRepository
	Categories CategoryRepository
	Orders     OrderRepository
	OrderItems OrderItemRepository
	Payments   PaymentRepository
	OrderLogs  OrderLogRepository
	Statistics StatisticsRepository
	Addresses  AddressRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Merchants:  NewMerchantRepository(db),
		Products:   NewProductRepository(db),
		Categories: NewCategoryRepository(db),
		Orders:     NewOrderRepository(db),
		OrderItems: NewOrderItemRepository(db),
		Payments:   NewPaymentRepository(db),
		OrderLogs:  NewOrderLogRepository(db),
		Statistics: NewStatisticsRepository(db),
		Addresses:  NewAddressRepository(db),
	}
}
