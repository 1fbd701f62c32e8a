package service

import (
	"log/slog"

	"github.com/Raymond9734/crm-backend/internal/db"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

// Services groups the business services sharing one database
type Services struct {
	Customers CustomerService
	Products  ProductService
	Orders    OrderService
}

// New wires the services over database with the default replenishment policy
func New(database *db.DB, logger *slog.Logger) *Services {
	repos := repository.NewRepositories(database.DB)
	txManager := repository.NewTxManager(database.DB, database.TxOptions())

	return &Services{
		Customers: NewCustomerService(repos.Customers, txManager, logger),
		Products:  NewProductService(repos.Products, txManager, DefaultReplenishmentPolicy, logger),
		Orders:    NewOrderService(repos.Orders, txManager, logger),
	}
}
