package main

import (
	"os"

	"github.com/joho/godotenv"

	"answerbase/cli"
)

func main() {
	// a missing .env is fine; the environment and config.yaml still apply
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
