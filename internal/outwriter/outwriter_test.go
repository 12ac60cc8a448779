package outwriter

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/netseries/core/measures"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/internal/parquet"
	"github.com/huangsam/netseries/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return jan1.AddDate(0, 0, n-1) }

// scalarTable has two windows with intervals, the second one degenerate.
func scalarTable() *schema.ResultTable {
	r0 := schema.NewMeasureRow(schema.Scalar(5), 3, day(1), day(11))
	r0.CILow, r0.CIHigh = 1, 2
	r1 := schema.NewMeasureRow(schema.Missing(), 0, day(11), day(21))
	return &schema.ResultTable{Rows: []schema.MeasureRow{r0, r1}, HasCI: true, Level: 0.95}
}

func nodeTable() *schema.ResultTable {
	r0 := schema.NewMeasureRow(schema.NodeValues(map[string]float64{"alice": 2, "bob": 1}), 2, day(1), day(11))
	r1 := schema.NewMeasureRow(schema.NodeValues(map[string]float64{"carol": 4}), 1, day(11), day(21))
	return &schema.ResultTable{Rows: []schema.MeasureRow{r0, r1}}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func testConfig(t *testing.T, mode schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:       mode,
		OutputFile:   filepath.Join(t.TempDir(), "out."+string(mode)),
		Precision:    2,
		Width:        120,
		Measure:      "edges",
		Permutations: 100,
		Workers:      1,
		Source:       schema.CSVSource,
	}
}

func TestWriteResultsCSV(t *testing.T) {
	t.Run("scalar with intervals", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		require.NoError(t, NewOutWriter().WriteResults(scalarTable(), cfg, time.Second))

		lines := strings.Split(strings.TrimSpace(readFile(t, cfg.OutputFile)), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "measure,CI.low,CI.high,eventCount,windowStart,windowEnd", lines[0])
		assert.Equal(t, "5.00,1.00,2.00,3,2024-01-01T00:00:00Z,2024-01-11T00:00:00Z", lines[1])
		assert.Equal(t, "NA,NA,NA,0,2024-01-11T00:00:00Z,2024-01-21T00:00:00Z", lines[2])
	})

	t.Run("node measure expands columns", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		require.NoError(t, WriteResults(nodeTable(), cfg, time.Second))

		lines := strings.Split(strings.TrimSpace(readFile(t, cfg.OutputFile)), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "alice,bob,carol,eventCount,windowStart,windowEnd", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "2.00,1.00,NA,2,"))
		assert.True(t, strings.HasPrefix(lines[2], "NA,NA,4.00,1,"))
	})
}

func TestWriteResultsJSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	require.NoError(t, WriteResults(scalarTable(), cfg, time.Second))

	var got struct {
		Columns []string         `json:"columns"`
		Level   float64          `json:"level"`
		Rows    []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
	assert.Equal(t, 0.95, got.Level)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, 5.0, got.Rows[0]["measure"])
	assert.Nil(t, got.Rows[1]["measure"], "missing values are null")
	assert.Contains(t, got.Columns, schema.CILowColumn)
}

func TestWriteResultsText(t *testing.T) {
	cfg := testConfig(t, schema.TextOut)
	cfg.UseColors = false
	require.NoError(t, WriteResults(scalarTable(), cfg, 1500*time.Millisecond))

	out := readFile(t, cfg.OutputFile)
	assert.Contains(t, strings.ToLower(out), "measure")
	assert.Contains(t, out, contract.AboveValue)
	assert.Contains(t, out, "NA")
	assert.Contains(t, out, "Measured edges over 2 windows (3 windowed events)")
	assert.Contains(t, out, "Null intervals from 100 permutations at 95% confidence")
	assert.Contains(t, out, "Run completed in 1.5s with 1 workers")
}

func TestWriteResultsTextKeyed(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(t, schema.TextOut)
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	require.NoError(t, writeResultsTable(&buf, nodeTable(), cfg, fmtFloat, intFmt, time.Second))

	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "carol")
	assert.NotContains(t, out, "label")
}

func TestWriteResultsParquet(t *testing.T) {
	cfg := testConfig(t, schema.ParquetOut)
	require.NoError(t, WriteResults(nodeTable(), cfg, time.Second))

	rows, err := pq.ReadFile[parquet.ResultRow](cfg.OutputFile)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "alice", rows[0].Key)
	assert.Equal(t, "carol", rows[2].Key)

	cfg.OutputFile = ""
	assert.ErrorIs(t, WriteResults(nodeTable(), cfg, time.Second), ErrParquetNeedsFile)
}

func TestWriteWindows(t *testing.T) {
	windows := []schema.WindowSummary{
		{Window: schema.Window{Index: 0, Start: day(1), End: day(11)}, EventCount: 2},
		{Window: schema.Window{Index: 1, Start: day(11), End: day(21)}, EventCount: 0},
	}

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut)
		require.NoError(t, NewOutWriter().WriteWindows(windows, cfg))
		assert.Equal(t,
			"index,start,end,event_count\n0,2024-01-01T00:00:00Z,2024-01-11T00:00:00Z,2\n1,2024-01-11T00:00:00Z,2024-01-21T00:00:00Z,0\n",
			readFile(t, cfg.OutputFile))
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		require.NoError(t, WriteWindows(windows, cfg))
		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
		require.Len(t, got, 2)
		assert.Equal(t, 2.0, got[0]["eventCount"])
		assert.Equal(t, 1.0, got[1]["index"])
	})

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		require.NoError(t, WriteWindows(windows, cfg))
		assert.Contains(t, readFile(t, cfg.OutputFile), "Scheduled 2 windows (1 empty)")
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut)
		assert.Error(t, WriteWindows(windows, cfg))
	})
}

func TestWriteMeasures(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut)
		require.NoError(t, NewOutWriter().WriteMeasures(measures.List(), cfg))
		var got []measureInfo
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
		require.Len(t, got, len(measures.List()))
		for _, m := range got {
			assert.Equal(t, m.Level == string(measures.GraphLevel), m.Diagnostics, m.Name)
		}
	})

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut)
		require.NoError(t, WriteMeasures(measures.List(), cfg))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "jaccard")
		assert.Contains(t, out, "Pairwise strategies: difference, mean, proportion, raw, sum")
	})
}

func TestCILabelUsesInterval(t *testing.T) {
	r := scalarTable().Rows[0]
	assert.Equal(t, contract.AboveValue, schema.GetCILabel(r))
	r.Measure = schema.Scalar(math.NaN())
	assert.Empty(t, schema.GetCILabel(r))
}
