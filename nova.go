package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	cli "github.com/novaagent/nova/cmd/nova"
	"github.com/novaagent/nova/internal/config"
)

//go:embed etc/nova.yaml
var embeddedConfig []byte

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	c, err := loadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cli.SetupRootCmd(&c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig prefers an explicit --config file, then the embedded
// defaults.
func loadConfig() (config.Config, error) {
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			return config.LoadFile(os.Args[i+1])
		}
	}
	return config.LoadFromBytes(embeddedConfig)
}
