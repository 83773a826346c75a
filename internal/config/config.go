package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/andreasstove999/coffee-machine-go/internal/inventory"
)

type Config struct {
	LogLevel         string
	LogFormat        string
	MachineID        string
	RabbitMQURL      string
	PublishEnveloped bool
	InitialStock     inventory.Stock
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		LogLevel:         env("LOG_LEVEL", "warn"),
		LogFormat:        env("LOG_FORMAT", "json"),
		MachineID:        env("MACHINE_ID", "coffee-machine-1"),
		RabbitMQURL:      env("RABBITMQ_URL", ""),
		PublishEnveloped: envBool("PUBLISH_ENVELOPED_EVENTS", true),
		InitialStock:     inventory.Stock{},
	}

	defaults := inventory.Stock{inventory.Water: 1000, inventory.Milk: 800, inventory.Coffee: 300}
	for _, ing := range inventory.Ingredients() {
		qty, err := envInt("MACHINE_"+strings.ToUpper(string(ing)), defaults[ing])
		if err != nil {
			return Config{}, err
		}
		if qty < 0 {
			return Config{}, fmt.Errorf("MACHINE_%s must not be negative", strings.ToUpper(string(ing)))
		}
		cfg.InitialStock[ing] = qty
	}

	return cfg, nil
}

func (c Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
