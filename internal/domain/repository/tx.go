package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Inventory InventoryRepository
	Movements InventoryMovementRepository
	Sales     SaleRepository
	Catalog   CatalogRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
