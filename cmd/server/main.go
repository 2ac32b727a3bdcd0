package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/pkg/bnuuytime"
	"github.com/MaddyGuthridge/bnuuy-time-mvp/pkg/logger"
)

var (
	addr           string
	catalogPath    string
	sqlitePath     string
	staticDir      string
	threshold      float64
	dayJitter      int
	allowedOrigins string
	logLevel       string
)

func init() {
	flag.StringVar(&addr, "addr", getEnvOrDefault("BNUUY_ADDR", ":8080"), "HTTP listen address")
	flag.StringVar(&catalogPath, "catalog", getEnvOrDefault("BNUUY_CATALOG", ""), "Path to a TOML catalog (default: built-in)")
	flag.StringVar(&sqlitePath, "sqlite", getEnvOrDefault("BNUUY_SQLITE", ""), "Path to an exported SQLite catalog")
	flag.StringVar(&staticDir, "static", getEnvOrDefault("BNUUY_STATIC_DIR", "static"), "Directory served under /static/ (empty to disable)")
	flag.Float64Var(&threshold, "threshold", getEnvFloat("BNUUY_THRESHOLD", bnuuytime.DefaultThreshold), "Combined angle (degrees) under which a bun counts as a match")
	flag.IntVar(&dayJitter, "day-jitter", getEnvInt("BNUUY_DAY_JITTER", 0), "How many days back a bun's sampled date may fall")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
	flag.StringVar(&logLevel, "log-level", getEnvOrDefault(logger.EnvLevel, "INFO"), "DEBUG, INFO, WARN or ERROR")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		logger.Warnf("%s=%q is not a number, using %v", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		logger.Warnf("%s=%q is not an integer, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func parseOrigins(raw string) []string {
	if raw == "*" {
		return []string{"*"}
	}
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func main() {
	flag.Parse()

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("%v, using INFO", err)
	}
	logger.SetLevel(level)

	service, err := bnuuytime.NewService(
		bnuuytime.WithCatalogPath(catalogPath),
		bnuuytime.WithSQLitePath(sqlitePath),
		bnuuytime.WithThreshold(threshold),
		bnuuytime.WithDayJitter(dayJitter),
	)
	if err != nil {
		logger.Fatalf("Failed to create service: %v", err)
	}

	config := &ServerConfig{
		Addr:           addr,
		StaticDir:      staticDir,
		AllowedOrigins: parseOrigins(allowedOrigins),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := NewServer(service, config)
	if err := server.Start(ctx); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Infof("Shutdown complete")
}
