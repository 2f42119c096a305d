package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/soyeahso/humanloop/internal/cli"
	"github.com/tillberg/autorestart"
)

func main() {
	// A .env alongside the binary is optional.
	_ = godotenv.Load()

	go autorestart.RestartOnChange()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
