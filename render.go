package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"co2dash/pkg/charts"
	"co2dash/pkg/dashboard"
	"co2dash/pkg/export"
)

var renderOpts struct {
	year   int
	x, y   string
	outDir string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the three panels as PNG charts plus xlsx and markdown reports",
	RunE:  runRender,
}

func init() {
	f := renderCmd.Flags()
	f.IntVar(&renderOpts.year, "year", 0, "year to show (default latest)")
	f.StringVar(&renderOpts.x, "x", "", "scatter X axis: CO2_per_Capita, gdp_per_capita or population")
	f.StringVar(&renderOpts.y, "y", "", "scatter Y axis")
	f.StringVarP(&renderOpts.outDir, "out", "o", "output", "output directory")
}

func runRender(cmd *cobra.Command, _ []string) error {
	session, log, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	fmt.Println("🌍 PER CAPITA CO₂ EMISSIONS DASHBOARD")
	ds, err := session.Dataset(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("📊 Data loaded: %d records, columns %v\n", ds.Len(), ds.Columns())

	vs, err := dashboard.Render(ds, dashboard.Selection{
		Year:    renderOpts.year,
		HasYear: cmd.Flags().Changed("year"),
		X:       renderOpts.x,
		Y:       renderOpts.y,
	})
	if err != nil {
		return err
	}

	renderer, err := newRenderer(log)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(renderOpts.outDir, 0o755); err != nil {
		return err
	}

	out, err := writeFigures(cmd.Context(), renderer, vs, renderOpts.outDir)
	if err != nil {
		return err
	}

	book := filepath.Join(renderOpts.outDir, fmt.Sprintf("co2_%d.xlsx", vs.Selection.Year))
	if err := export.WriteWorkbook(book, vs); err != nil {
		return err
	}
	out.files = append(out.files, book)

	report := filepath.Join(renderOpts.outDir, fmt.Sprintf("co2_%d.md", vs.Selection.Year))
	f, err := os.Create(report)
	if err != nil {
		return err
	}
	info := export.ReportInfo{Source: ds.Path(), Generated: time.Now(), Unmatched: out.unmatched}
	if err := closeAfter(f, export.Report(f, vs, info)); err != nil {
		return fmt.Errorf("%s: %w", report, err)
	}
	out.files = append(out.files, report)

	fmt.Printf("\n✅ Dashboard for %d rendered\n", vs.Selection.Year)
	fmt.Println("📁 Output files:")
	for _, name := range out.files {
		fmt.Printf("   - %s\n", name)
	}
	return nil
}

// closeAfter closes c and returns err, or the close error when err is nil.
func closeAfter(c io.Closer, err error) error {
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}

type figureOutput struct {
	files     []string
	unmatched []string
}

func writeFigures(ctx context.Context, r *charts.Renderer, vs dashboard.ViewState, dir string) (figureOutput, error) {
	var out figureOutput
	write := func(name string, draw func(f *os.File) error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := closeAfter(f, draw(f)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out.files = append(out.files, path)
		return nil
	}

	year := vs.Selection.Year
	err := write(fmt.Sprintf("map_%d.png", year), func(f *os.File) error {
		var err error
		out.unmatched, err = r.Choropleth(f, vs.MapSpec, vs.Map)
		return err
	})
	switch {
	case errors.Is(err, charts.ErrNoGazetteer):
		os.Remove(filepath.Join(dir, fmt.Sprintf("map_%d.png", year)))
	case err != nil:
		return out, err
	}

	if err := write(fmt.Sprintf("top10_%d.png", year), func(f *os.File) error {
		return r.Bar(f, vs.TopSpec, vs.Top)
	}); err != nil {
		return out, err
	}

	err = write(fmt.Sprintf("scatter_%d.png", year), func(f *os.File) error {
		trend, ok, err := r.Scatter(f, vs.ScatterSpec, vs.Scatter)
		if ok {
			fmt.Printf("📈 %s: slope %.4g, R² %.3f\n", vs.ScatterSpec.Title, trend.Beta, trend.RSquared)
		}
		return err
	})
	return out, err
}
