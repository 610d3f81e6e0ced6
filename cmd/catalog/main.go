// Package main is the entry point for the ShopStack catalog service.
package main

import (
	"os"

	"github.com/joho/godotenv"
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/shopstack-io/shopstack/internal/catalog"
)

func main() {
	// A missing .env file is fine; environment wins in deployment.
	_ = godotenv.Load()

	if err := catalog.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
