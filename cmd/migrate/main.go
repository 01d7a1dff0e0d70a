// migrate applies the embedded SQL migrations: go run ./cmd/migrate -direction up
package main

import (
	"flag"
	"fmt"
	"os"

	"newsportal/internal/config"
	"newsportal/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := migrate.Run(cfg.Database.DSN, *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	fmt.Printf("migrate %s: done\n", *direction)
}
