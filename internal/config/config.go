package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment. The two
// passwords gate the whole app (shared) and the destructive player admin
// endpoints respectively.
type Config struct {
	DatabasePath  string
	ServerPort    int
	AppPassword   string
	AdminPassword string
	CORSOrigins   []string
}

func Load() (*Config, error) {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	appPassword := os.Getenv("APP_PASSWORD")
	if appPassword == "" {
		return nil, fmt.Errorf("APP_PASSWORD environment variable is not set")
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD environment variable is not set")
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "shed.db"
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	origins := []string{"http://localhost", "http://localhost:3000"}
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return &Config{
		DatabasePath:  dbPath,
		ServerPort:    port,
		AppPassword:   appPassword,
		AdminPassword: adminPassword,
		CORSOrigins:   origins,
	}, nil
}
