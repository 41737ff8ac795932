package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional and never overrides the real environment.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with error code
		os.Exit(1)
	}
}
