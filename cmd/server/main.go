// Package main is the entry point for the escape-api HTTP server
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "escape-api",
	Short: "Educational escape room API server",
	Long:  `escape-api serves escape room definitions and runs game sessions for educational escape rooms.`,
}

func main() {
	// Missing .env is fine, env vars and flags still apply
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(seedCmd)
}
