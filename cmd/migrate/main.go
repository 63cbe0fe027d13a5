// migrate applies the dev backend schema from embedded SQL: go run ./cmd/migrate [-direction down].
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/verrloren/hackathon-evrz/internal/config"
	"github.com/verrloren/hackathon-evrz/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", migrate.Up, "Migration direction: up or down")
	flag.Parse()

	dsn, err := config.LoadDatabaseURL()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := migrate.Run(dsn, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return
		}
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
