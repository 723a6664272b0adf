// Package main provides the entry point for the Resume Screener HTTP API
// server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screener_api",
	Short: "Resume Screener HTTP API Server",
	Long:  "Resume Screener scores resumes against job descriptions, recomputes experience deterministically, and serves multi-tenant analysis, history and usage endpoints via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
