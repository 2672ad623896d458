package export

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"co2dash/pkg/charts"
	"co2dash/pkg/dashboard"
)

// ReportInfo carries facts about the run that are not part of the view state.
type ReportInfo struct {
	Source    string
	Generated time.Time
	// Unmatched lists countries the map could not place.
	Unmatched []string
}

// Report writes a markdown summary of vs.
func Report(w io.Writer, vs dashboard.ViewState, info ReportInfo) error {
	year := vs.Selection.Year

	report := "# 🌍 Per Capita CO₂ Emissions Dashboard\n\n"
	report += "### 📊 Summary\n\n"
	report += fmt.Sprintf("- **Source**: %s\n", info.Source)
	report += fmt.Sprintf("- **Records**: %d\n", vs.Records)
	if n := len(vs.Years); n > 0 {
		report += fmt.Sprintf("- **Years**: %d-%d (%d distinct)\n", vs.Years[n-1], vs.Years[0], n)
	}
	report += fmt.Sprintf("- **Selected year**: %d\n", year)

	measured := 0
	for _, a := range vs.Map.Areas {
		if a.Valid {
			measured++
		}
	}
	report += fmt.Sprintf("- **Countries in %d**: %d (%d with a measurement)\n", year, len(vs.Map.Areas), measured)
	if measured > 0 {
		report += fmt.Sprintf("- **Range**: %.2f to %.2f t per person\n", vs.Map.Min, vs.Map.Max)
	}
	if len(info.Unmatched) > 0 {
		report += fmt.Sprintf("- **Not on map**: %s\n", strings.Join(info.Unmatched, ", "))
	}

	report += fmt.Sprintf("\n### 🏆 %s\n\n", vs.TopSpec.Title)
	report += "| Rank | Country | CO₂ per capita (t) |\n"
	report += "|------|---------|--------------------|\n"
	for i, r := range vs.Top {
		v, _ := r.CO2()
		report += fmt.Sprintf("| %d | %s | %.2f |\n", i+1, r.Country, v)
	}

	report += fmt.Sprintf("\n### 📈 %s\n\n", vs.ScatterSpec.Title)
	report += fmt.Sprintf("- **Points**: %d\n", len(vs.Scatter.Points))
	if trend, ok := charts.Fit(vs.Scatter.XS(), vs.Scatter.YS()); ok {
		report += fmt.Sprintf("- **OLS trend**: %s = %.4g + %.4g × %s\n", vs.Scatter.Y, trend.Alpha, trend.Beta, vs.Scatter.X)
		if !math.IsNaN(trend.RSquared) {
			report += fmt.Sprintf("- **R²**: %.3f\n", trend.RSquared)
		}
	} else {
		report += "- **OLS trend**: not enough distinct points\n"
	}

	report += fmt.Sprintf("\n---\n*Generated by co2dash - %s*\n", info.Generated.Format("2 January 2006"))

	_, err := io.WriteString(w, report)
	return err
}
