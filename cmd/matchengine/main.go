// Package main provides the entry point for the matching engine CLI and
// HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "matchengine",
	Short: "Applicant-tracking skill matching engine",
	Long:  "matchengine normalizes candidate and job-posting skills onto a shared taxonomy, gates candidates against hard requirements, and ranks the eligible pool.",
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
