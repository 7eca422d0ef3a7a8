package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
Delivery fare engine

Usage:
  fare --mode=<pricing-service|fare-worker> [--config-path=config.yaml]

Modes:
  pricing-service   HTTP API for tier / city rule configuration and fare quotes
  fare-worker       RabbitMQ consumer pricing completed trips and applying surge updates

Options:
  --help            Show this message
  --config-path     Path to the YAML config (default config.yaml)
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

// PrintConfig prints non-secret configuration values.
func PrintConfig(cfg *Config) {
	fmt.Printf("mode: %s\n", cfg.Mode)
	fmt.Printf("database: %s:%s/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	fmt.Printf("rabbitmq: %s:%s\n", cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	fmt.Printf("redis: %s (db %d)\n", cfg.Redis.Addr, cfg.Redis.DB)
	fmt.Printf("fare: currency=%s surge_cache_ttl=%s reload=%s\n", cfg.Fare.Currency, cfg.Fare.SurgeCacheTTL, cfg.Fare.ReloadEvery)
}
