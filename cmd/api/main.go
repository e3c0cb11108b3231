// @title        Kardex API
// @version      1.0
// @description  Libro de inventario (kardex): catálogo de artículos, movimientos
// @description  IN/OUT con conversión de unidades congelada por línea y alertas
// @description  de reorden. Las escrituras del libro son transaccionales.
// @BasePath     /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/kardex-api/internal/application/alerts"
	"github.com/jhoicas/kardex-api/internal/application/catalog"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/ports"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/kardex-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"

	_ "github.com/jhoicas/kardex-api/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("engine", cfg.Storage.Engine).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		itemRepo     repository.ItemRepository
		movementRepo repository.TransactionRepository
		txRunner     ledger.TxRunner
	)
	switch cfg.Storage.Engine {
	case config.EngineMemory:
		store := memory.NewStore()
		if cfg.Storage.SeedDemo {
			memory.SeedDemo(store)
			log.Info().Msg("catálogo de demostración cargado")
		}
		itemRepo = memory.NewItemRepository(store)
		movementRepo = memory.NewTransactionRepository(store)
		txRunner = memory.NewTxRunner(store)
	default:
		if cfg.DB.Migrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		itemRepo = postgres.NewItemRepository(pool)
		movementRepo = postgres.NewTransactionRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	// Deduplicación de escrituras: Redis si está configurado, memoria si no.
	var idemStore ports.IdempotencyStore
	if cfg.Redis.Enabled() {
		client, err := infraredis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		idemStore = infraredis.NewIdempotencyStore(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotencia respaldada en Redis")
	} else {
		idemStore = memory.NewIdempotencyStore()
	}

	catalogUC := catalog.NewUseCase(itemRepo, movementRepo)
	ledgerUC := ledger.NewUseCase(txRunner, itemRepo, movementRepo)
	alertsUC := alerts.NewUseCase(itemRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:   catalogUC,
		LedgerUC:    ledgerUC,
		AlertsUC:    alertsUC,
		Idempotency: idemStore,
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
