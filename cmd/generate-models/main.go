package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
