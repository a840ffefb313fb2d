// Package main provides the entry point for the Resume Editor HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_editor",
	Short: "Resume Editor HTTP API Server",
	Long:  "Resume Editor manages in-browser resume sessions: marking sections, requesting AI improvement suggestions, previewing word diffs, and applying or undoing them via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
