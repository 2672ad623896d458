// co2dash renders a per capita CO₂ emissions dashboard from a CSV file,
// either as static charts and reports or as a small web application.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"co2dash/pkg/charts"
	"co2dash/pkg/dashboard"
	"co2dash/pkg/gazetteer"
	"co2dash/pkg/logger"
)

var cfg = FromEnv()

var rootCmd = &cobra.Command{
	Use:          "co2dash",
	Short:        "Per capita CO₂ emissions dashboard",
	Long:         "Map, top 10 ranking and correlation views over a per capita CO₂ emissions CSV.",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.CSV, "csv", cfg.CSV, "dataset CSV path (env CO2DASH_CSV)")
	pf.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "dataset text encoding, e.g. utf-8, euc-kr, cp949 (env CO2DASH_ENCODING); "+
		"a wrong single-byte code page such as windows-1252 cannot be detected and yields garbled text")
	pf.StringVar(&cfg.GeoJSON, "geojson", cfg.GeoJSON, "country outlines GeoJSON for the map (env CO2DASH_GEOJSON)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (env CO2DASH_LOG_LEVEL)")
	pf.StringSliceVar(&cfg.Aliases, "alias", nil, "rename a source column before mapping, from=to (repeatable)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(yearsCmd)
}

// openSession builds the logger and the session shared by all commands.
func openSession() (*dashboard.Session, *slog.Logger, error) {
	log, err := logger.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	aliases, err := aliasMap(cfg.Aliases)
	if err != nil {
		return nil, nil, err
	}
	session := dashboard.Open(dashboard.Options{
		Path:     cfg.CSV,
		Encoding: cfg.Encoding,
		Aliases:  aliases,
		Logger:   log,
	})
	return session, log, nil
}

// newRenderer loads the gazetteer when one is configured.
func newRenderer(log *slog.Logger) (*charts.Renderer, error) {
	if cfg.GeoJSON == "" {
		log.Warn("no --geojson given, the map panel is rendered as a table only")
		return charts.NewRenderer(nil), nil
	}
	g, err := gazetteer.LoadFile(cfg.GeoJSON)
	if err != nil {
		return nil, err
	}
	log.Info("gazetteer loaded", "path", cfg.GeoJSON, "features", g.Len())
	return charts.NewRenderer(g), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
