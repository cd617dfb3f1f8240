package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rmehta/loan-advisor/cmd"
)

func main() {
	// API keys (OPENAI_API_KEY, SERPER_API_KEY) may live in a local .env.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
