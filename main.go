package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/spigell/recruiter-copilot/cmd"
)

func main() {
	// A missing .env file is fine; the environment is used as is.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
