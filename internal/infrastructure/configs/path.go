package configs

import (
	"flag"
	"log"
	"os"

	"github.com/quizdash/quizdash/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file from --config, the
// QUIZDASH_CONFIG env var, or a list of conventional locations. An empty
// result means "defaults + env only".
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("QUIZDASH_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/quizdash/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	if configPath == "" {
		log.Println("no config file found, using defaults and environment overrides")
	}

	return configPath
}
