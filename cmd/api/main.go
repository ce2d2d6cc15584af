// Command api runs the HTTP API of SPEC_FULL.md §6.4.
package main

import (
	"log"
	"os"

	"github.com/asyncwand/asyncwand/internal/api"
	"github.com/asyncwand/asyncwand/internal/store"
	"github.com/asyncwand/asyncwand/internal/support"
)

func main() {
	logger := support.NewLogger(os.Getenv("ASYNCWAND_VERBOSE") == "1")

	var st *store.Store
	if dsn := os.Getenv("ASYNCWAND_POSTGRES_DSN"); dsn != "" {
		opened, err := store.Open(dsn)
		if err != nil {
			log.Fatalf("connecting to store: %v", err)
		}
		defer opened.Close()
		st = opened
	} else {
		logger.Warn("ASYNCWAND_POSTGRES_DSN not set; running without persistence")
	}

	server := api.NewServer(st, logger)
	addr := os.Getenv("ASYNCWAND_API_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	logger.Info("starting asyncwand API server on %s", addr)
	if err := server.SetupRouter().Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
