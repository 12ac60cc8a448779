// Package eventsrc loads relational event logs from files and databases.
package eventsrc

import (
	"context"
	"fmt"

	"github.com/huangsam/netseries/core/eventlog"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/schema"
)

// Open returns the event source selected by the config.
func Open(cfg *contract.Config) (contract.EventSource, error) {
	switch cfg.Source {
	case schema.CSVSource:
		return NewCSVSource(cfg.InputPath), nil
	case schema.ParquetSource:
		return NewParquetSource(cfg.InputPath), nil
	case schema.SQLiteSource, schema.MySQLSource, schema.PostgreSQLSource:
		return NewSQLSource(cfg.Source, cfg.DBConnect, cfg.Table)
	default:
		return nil, fmt.Errorf("unsupported source: %s", cfg.Source)
	}
}

// LoadLog reads every event from src and builds a validated log.
func LoadLog(ctx context.Context, src contract.EventSource) (*eventlog.Log, error) {
	events, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Describe(), err)
	}
	log, err := eventlog.New(events)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Describe(), err)
	}
	return log, nil
}
