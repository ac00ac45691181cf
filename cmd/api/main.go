package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/licorera-api/docs"
	"github.com/jhoicas/licorera-api/internal/application/auth"
	"github.com/jhoicas/licorera-api/internal/application/inventory"
	"github.com/jhoicas/licorera-api/internal/application/sales"
	"github.com/jhoicas/licorera-api/internal/domain/repository"
	"github.com/jhoicas/licorera-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/licorera-api/internal/infrastructure/pdf"
	"github.com/jhoicas/licorera-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/licorera-api/internal/interfaces/http"
	"github.com/jhoicas/licorera-api/pkg/config"
	"github.com/jhoicas/licorera-api/pkg/logger"
)

// @title        Licorera API
// @version      1.0
// @description  Inventario, movimientos y ventas de la licorera.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("api_version", docs.SwaggerInfo.Version).
		Msg("iniciando aplicación")

	// Decimales como números en JSON (cantidad, precio_unitario, total).
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	var (
		repos    repository.TxRepos
		txRunner repository.TxRunner
		userRepo repository.UserRepository
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		if err := seedDemo(store); err != nil {
			log.Fatal().Err(err).Msg("datos de demostración")
		}
		repos = store.Repos()
		txRunner = memory.NewTxRunner(store)
		userRepo = store.Users()
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración del esquema")
			}
			log.Info().Msg("esquema aplicado")
		}
		repos = postgres.Repos(pool)
		txRunner = postgres.NewTxRunner(pool)
		userRepo = postgres.NewUserRepository(pool)
	}

	ledger := inventory.NewLedger()
	movementUC := inventory.NewMovementUseCase(txRunner, ledger, repos.Inventory, repos.Movements, repos.Catalog, log.Component("inventory"))
	inventoryUC := inventory.NewInventoryUseCase(txRunner, ledger, repos.Inventory, repos.Catalog)
	saleUC := sales.NewSaleUseCase(txRunner, ledger, repos.Sales, repos.Catalog,
		sales.Config{RestoreStockOnDelete: cfg.Sales.RestoreStockOnDelete}, log.Component("sales"))
	backfillUC := sales.NewBackfillUseCase(txRunner, ledger, log.Component("backfill"))

	// PDF: recibo de venta
	receiptUC := sales.NewReceiptUseCase(saleUC, infrapdf.NewMarotoReceiptGenerator(), sales.StoreInfo{
		Name:    cfg.Store.Name,
		NIT:     cfg.Store.NIT,
		Address: cfg.Store.Address,
		Phone:   cfg.Store.Phone,
	})
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: el login no podrá emitir tokens")
	}

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:          cfg.App.Name,
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		DocsFile:         cfg.HTTP.DocsFile,
		DocsTitle:        docs.SwaggerInfo.Title,
	}, log.Component("http"))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		MovementUC:  movementUC,
		InventoryUC: inventoryUC,
		SaleUC:      saleUC,
		BackfillUC:  backfillUC,
		ReceiptUC:   receiptUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
