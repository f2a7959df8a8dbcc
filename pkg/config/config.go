// Файл: config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type SimulatorConfig struct {
	Interval time.Duration
	Enabled  bool
}

// BrokerConfig — параметры AMQP-реле. Пустой URL отключает реле:
// демо тогда работает только от таймера симулятора.
type BrokerConfig struct {
	URL          string
	Exchange     string
	TriggerQueue string
}

type Config struct {
	Server    ServerConfig
	Simulator SimulatorConfig
	Broker    BrokerConfig
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			CORSOrigins: splitEnv("CORS_ORIGINS", "http://localhost:5173"),
		},
		Simulator: SimulatorConfig{
			Interval: getDurationEnv("SIMULATOR_INTERVAL", 10*time.Second),
			Enabled:  getBoolEnv("SIMULATOR_ENABLED", true),
		},
		Broker: BrokerConfig{
			URL:          getEnv("BROKER_URL", ""),
			Exchange:     getEnv("BROKER_EXCHANGE", "order.updates"),
			TriggerQueue: getEnv("BROKER_TRIGGER_QUEUE", "order.triggers"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Предупреждение: %s=%q не является длительностью, используется %s", key, value, fallback)
		return fallback
	}
	return d
}

func getBoolEnv(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Предупреждение: %s=%q не является булевым значением, используется %t", key, value, fallback)
		return fallback
	}
	return b
}

func splitEnv(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
