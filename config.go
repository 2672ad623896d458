package main

import (
	"fmt"
	"os"
	"strings"
)

// Config is the runtime configuration. Environment variables provide the
// defaults; command-line flags override them.
type Config struct {
	CSV      string
	Encoding string
	GeoJSON  string
	Addr     string
	LogLevel string
	Aliases  []string
}

func FromEnv() Config {
	return Config{
		CSV:      envOr("CO2DASH_CSV", "per-capita-co-emissions.csv"),
		Encoding: envOr("CO2DASH_ENCODING", "utf-8"),
		GeoJSON:  os.Getenv("CO2DASH_GEOJSON"),
		Addr:     envOr("CO2DASH_ADDR", ":8080"),
		LogLevel: envOr("CO2DASH_LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// aliasMap parses "from=to" pairs.
func aliasMap(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		from, to, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return nil, fmt.Errorf("alias %q: want from=to", pair)
		}
		out[from] = to
	}
	return out, nil
}
