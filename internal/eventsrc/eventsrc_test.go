package eventsrc

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/netseries/core/eventlog"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/internal/parquet"
	"github.com/huangsam/netseries/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCSVSourceFixture(t *testing.T) {
	src := NewCSVSource(filepath.Join("testdata", "events.csv"))
	defer func() { _ = src.Close() }()

	events, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 4, "header and comment are skipped")

	assert.Equal(t, schema.Event{A: "alice", B: "bob", Weight: 1, Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, events[0])
	assert.Equal(t, 1.5, events[2].Weight)
	assert.True(t, time.Date(2024, 1, 12, 9, 30, 0, 0, time.UTC).Equal(events[2].Time))
	assert.True(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Equal(events[3].Time))
	assert.Contains(t, src.Describe(), "events.csv")
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   string
	}{
		{name: "no header", input: "a,b,1,2024-01-01\nb,c,2,2024-01-02\n", wantCount: 2},
		{name: "empty", input: "", wantCount: 0},
		{name: "bad timestamp", input: "a,b,1,someday\n", wantErr: "line 1"},
		{name: "bad weight after header", input: "a,b,w,t\na,b,heavy,2024-01-01\n", wantErr: "invalid weight"},
		{name: "wrong field count", input: "a,b,1\n", wantErr: "wrong number of fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := ReadCSV(context.Background(), strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, events, tt.wantCount)
		})
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv")).Load(context.Background())
	assert.Error(t, err)
}

func TestParquetSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.parquet")
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, parquet.WriteEventsParquet([]schema.Event{
		{A: "x", B: "y", Weight: 2, Time: t0},
		{A: "y", B: "z", Weight: 1, Time: t0.Add(time.Hour)},
	}, path))

	src := NewParquetSource(path)
	events, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "z", events[1].B)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// seedSQLite creates an events table in a fresh SQLite file.
func seedSQLite(t *testing.T, tsType string, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec("CREATE TABLE events (a TEXT, b TEXT, weight REAL, ts " + tsType + ")")
	require.NoError(t, err)
	for _, r := range rows {
		_, err = db.Exec("INSERT INTO events (a, b, weight, ts) VALUES (?, ?, ?, ?)", r...)
		require.NoError(t, err)
	}
	return path
}

func TestSQLiteSource(t *testing.T) {
	tests := []struct {
		name   string
		tsType string
		ts     []any
	}{
		{"text timestamps", "TEXT", []any{"2024-01-01", "2024-01-02T12:00:00Z"}},
		{"unix seconds", "INTEGER", []any{int64(1704067200), int64(1704196800)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := seedSQLite(t, tt.tsType, [][]any{
				{"alice", "bob", 1.0, tt.ts[0]},
				{"bob", "carol", 2.5, tt.ts[1]},
			})

			src, err := NewSQLSource(schema.SQLiteSource, path, "events")
			require.NoError(t, err)
			defer func() { _ = src.Close() }()

			events, err := src.Load(context.Background())
			require.NoError(t, err)
			require.Len(t, events, 2)
			assert.Equal(t, "alice", events[0].A)
			assert.Equal(t, 2.5, events[1].Weight)
			assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(events[0].Time))
			assert.True(t, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC).Equal(events[1].Time))
		})
	}
}

func TestSQLSourceRejectsBadTable(t *testing.T) {
	_, err := NewSQLSource(schema.SQLiteSource, ":memory:", "events; DROP TABLE x")
	assert.Error(t, err)
}

func TestSQLSourceMissingTable(t *testing.T) {
	path := seedSQLite(t, "TEXT", nil)
	src, err := NewSQLSource(schema.SQLiteSource, path, "contacts")
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	_, err = src.Load(context.Background())
	assert.Error(t, err)
}

func TestTimestampOf(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, v := range []any{want, "2024-01-01", []byte("2024-01-01"), int64(1704067200), float64(1704067200)} {
		got, err := timestampOf(v)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "%T", v)
	}
	_, err := timestampOf(nil)
	assert.Error(t, err)
	_, err = timestampOf(true)
	assert.Error(t, err)
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`events`", quoteTableName("events", schema.MySQLSource))
	assert.Equal(t, `"events"`, quoteTableName("events", schema.PostgreSQLSource))
	assert.Equal(t, `"events"`, quoteTableName("events", schema.SQLiteSource))
}

func TestOpen(t *testing.T) {
	src, err := Open(&contract.Config{Source: schema.CSVSource, InputPath: "a.csv"})
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, src)

	src, err = Open(&contract.Config{Source: schema.ParquetSource, InputPath: "a.parquet"})
	require.NoError(t, err)
	assert.IsType(t, &ParquetSource{}, src)

	path := seedSQLite(t, "TEXT", nil)
	src, err = Open(&contract.Config{Source: schema.SQLiteSource, DBConnect: path, Table: "events"})
	require.NoError(t, err)
	assert.IsType(t, &SQLSource{}, src)
	_ = src.Close()

	_, err = Open(&contract.Config{Source: "kafka"})
	assert.Error(t, err)
}

func TestLoadLog(t *testing.T) {
	ctx := context.Background()

	t.Run("valid events", func(t *testing.T) {
		src := &MockEventSource{}
		src.On("Load", mock.Anything).Return([]schema.Event{
			{A: "a", B: "b", Weight: 1, Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
			{A: "b", B: "c", Weight: 1, Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}, nil)

		log, err := LoadLog(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, 2, log.Len())
		assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(log.Min()))
		src.AssertExpectations(t)
	})

	t.Run("load failure", func(t *testing.T) {
		src := &MockEventSource{}
		src.On("Load", mock.Anything).Return(nil, errors.New("disk gone"))
		src.On("Describe").Return("mock")

		_, err := LoadLog(ctx, src)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load mock")
	})

	t.Run("empty log", func(t *testing.T) {
		src := &MockEventSource{}
		src.On("Load", mock.Anything).Return([]schema.Event{}, nil)
		src.On("Describe").Return("mock")

		_, err := LoadLog(ctx, src)
		assert.ErrorIs(t, err, eventlog.ErrEmptyLog)
	})

	t.Run("self loop", func(t *testing.T) {
		src := &MockEventSource{}
		src.On("Load", mock.Anything).Return([]schema.Event{
			{A: "a", B: "a", Weight: 1, Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}, nil)
		src.On("Describe").Return("mock")

		_, err := LoadLog(ctx, src)
		assert.ErrorIs(t, err, eventlog.ErrSelfLoop)
	})
}
