// migrate aplica (o revierte) las migraciones SQL embebidas contra la base
// configurada, sin levantar la API.
//
// Uso: go run ./cmd/migrate [-down]
// La conexión se toma de DATABASE_URL o de las variables DB_* (ver pkg/config).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/pkg/config"
)

func main() {
	down := flag.Bool("down", false, "revertir todas las migraciones en lugar de aplicarlas")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	dsn := cfg.DB.ConnectionString()
	if *down {
		if err := postgres.MigrateDown(dsn); err != nil {
			fmt.Fprintf(os.Stderr, "Revertir migraciones: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migraciones revertidas")
		return
	}

	if err := postgres.Migrate(dsn); err != nil {
		fmt.Fprintf(os.Stderr, "Aplicar migraciones: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Migraciones aplicadas")
}
