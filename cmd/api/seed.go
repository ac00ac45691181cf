package main

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/internal/application/auth"
	"github.com/jhoicas/licorera-api/internal/domain/entity"
	"github.com/jhoicas/licorera-api/internal/infrastructure/memory"
)

// seedDemo carga un catálogo mínimo para DB_DRIVER=memory.
// Usuarios: admin@licorera.local / admin123 y caja@licorera.local / caja123.
func seedDemo(store *memory.Store) error {
	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	cajaHash, err := auth.HashPassword("caja123")
	if err != nil {
		return err
	}
	store.SeedUser(entity.User{ID: 1, Name: "Administrador", Email: "admin@licorera.local", PasswordHash: adminHash, RoleID: 1, RoleName: entity.RoleAdministrador})
	store.SeedUser(entity.User{ID: 2, Name: "Caja 1", Email: "caja@licorera.local", PasswordHash: cajaHash, RoleID: 2, RoleName: entity.RoleCajero})

	store.SeedCustomer(entity.Customer{ID: 1, Name: "Cliente mostrador"})
	store.SeedProvider(entity.Provider{ID: 1, Name: "Distribuidora Central", Phone: "6015550101"})

	aguardiente, ron, whisky := int64(1), int64(2), int64(3)
	store.SeedProduct(entity.Product{ID: aguardiente, Name: "Aguardiente 750ml", LiquorTypeName: "Aguardiente",
		PurchasePrice: decimal.NewFromInt(28000), SalePrice: decimal.NewFromInt(38000)})
	store.SeedProduct(entity.Product{ID: ron, Name: "Ron añejo 750ml", LiquorTypeName: "Ron",
		PurchasePrice: decimal.NewFromInt(35000), SalePrice: decimal.NewFromInt(48000)})
	store.SeedProduct(entity.Product{ID: whisky, Name: "Whisky 12 años 700ml", LiquorTypeName: "Whisky",
		PurchasePrice: decimal.NewFromInt(95000), SalePrice: decimal.NewFromInt(130000)})

	store.SeedStock(aguardiente, 1, decimal.NewFromInt(48))
	store.SeedStock(ron, 1, decimal.NewFromInt(24))
	store.SeedStock(whisky, 1, decimal.NewFromInt(6))
	return nil
}
