package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"co2dash/pkg/dashboard"
	"co2dash/pkg/dataset"
)

func viewState(t *testing.T) dashboard.ViewState {
	t.Helper()
	ds, err := dataset.Load("../dataset/testdata/co2.csv", "")
	require.NoError(t, err)
	vs, err := dashboard.Render(ds, dashboard.Selection{})
	require.NoError(t, err)
	return vs
}

func cell(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref)
	require.NoError(t, err)
	return v
}

func TestWorkbook(t *testing.T) {
	f, err := Workbook(viewState(t))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Top10_2020", "Map_2020", "Correlation_2020"}, f.GetSheetList())

	assert.Equal(t, "Rank", cell(t, f, "Top10_2020", "A1"))
	assert.Equal(t, "Qatar", cell(t, f, "Top10_2020", "B2"))
	assert.Equal(t, "35.6", cell(t, f, "Top10_2020", "C2"))
	assert.Equal(t, "Chad", cell(t, f, "Top10_2020", "B4"))

	assert.Equal(t, "Kosovo", cell(t, f, "Map_2020", "A5"))
	assert.Equal(t, "", cell(t, f, "Map_2020", "B5"))

	assert.Equal(t, dataset.ColGDP, cell(t, f, "Correlation_2020", "B1"))
	assert.Equal(t, "Brazil", cell(t, f, "Correlation_2020", "A2"))
	assert.Equal(t, "OLS intercept", cell(t, f, "Correlation_2020", "A6"))
	assert.Equal(t, "3", cell(t, f, "Correlation_2020", "B9"))
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "co2.xlsx")
	require.NoError(t, WriteWorkbook(path, viewState(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "Qatar", cell(t, f, "Top10_2020", "B2"))
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	err := Report(&buf, viewState(t), ReportInfo{
		Source:    "co2.csv",
		Generated: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Unmatched: []string{"Kosovo"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "- **Records**: 7")
	assert.Contains(t, out, "- **Years**: 2019-2020 (2 distinct)")
	assert.Contains(t, out, "- **Countries in 2020**: 4 (3 with a measurement)")
	assert.Contains(t, out, "| 1 | Qatar | 35.60 |")
	assert.Contains(t, out, "| 3 | Chad | 0.10 |")
	assert.Contains(t, out, "- **Not on map**: Kosovo")
	assert.Contains(t, out, "- **Points**: 3")
	assert.Contains(t, out, "OLS trend")
	assert.Contains(t, out, "1 March 2024")
}
