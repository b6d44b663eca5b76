// Command keygen prints a new cron API key and the bcrypt hash to put in
// CRON_API_KEY_HASH.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/coop_payroll_app/internal/utils"
)

func main() {
	length := flag.Int("bytes", 32, "random bytes in the generated key")
	flag.Parse()

	key, err := utils.GenerateAPIKey(*length)
	if err != nil {
		slog.Error("Failed to generate API key", slog.String("error", err.Error()))
		os.Exit(1)
	}
	hash, err := utils.HashAPIKey(key)
	if err != nil {
		slog.Error("Failed to hash API key", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("X-API-Key:         %s\n", key)
	fmt.Printf("CRON_API_KEY_HASH: %s\n", hash)
}
