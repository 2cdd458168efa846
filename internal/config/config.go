package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Srv      *Serviceconfig
	Track    *Trackingconfig
	Log      *Loggerconfig
}

type DBconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type Serviceconfig struct {
	TripServicePort  string
	AdminServicePort string
}

type Trackingconfig struct {
	// GPS fixes older than this are ignored in favour of the schedule estimate.
	FreshnessThreshold time.Duration
	JwtSecret          string
}

type Loggerconfig struct {
	Level string
}

func New() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("invalid %v, using default %v\n", key, def)
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "bustrack_user"),
			Password: getEnv("DB_PASSWORD", "bustrack_pass"),
			Database: getEnv("DB_NAME", "bustrack_db"),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Srv: &Serviceconfig{
			TripServicePort:  getEnv("TRIP_SERVICE_PORT", "3000"),
			AdminServicePort: getEnv("ADMIN_SERVICE_PORT", "3004"),
		},
		Track: &Trackingconfig{
			FreshnessThreshold: time.Duration(getEnvInt("GPS_FRESHNESS_SECONDS", 30)) * time.Second,
			JwtSecret:          getEnv("PUBLIC_JWT_SECRET", "dev-secret"),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	return cnf, nil
}
