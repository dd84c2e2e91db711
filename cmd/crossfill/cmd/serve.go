package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/crosshare-org/crosshare/internal/server"
	"github.com/crosshare-org/crosshare/pkg/fill"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fill engine over HTTP",
	Long: `Start the HTTP solve service.

Configuration comes from the environment (a .env file is honored):
  PORT       listen port (default 8080)
  WORDLIST   text wordlist path
  CLUEDATA   binary clue dataset path (WORDLIST wins if both are set)
  REDIS_URL  optional redis URL for the solution cache

Examples:
  WORDLIST=cluedata.txt crossfill serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := server.ConfigFromEnv()
	cfg.Discrepancy = fill.DefaultDiscrepancy
	return server.Run(cfg)
}
