package outwriter

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/huangsam/netseries/core/measures"
	"github.com/huangsam/netseries/internal/contract"
	"github.com/huangsam/netseries/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// measureInfo is the serializable view of a measure definition.
type measureInfo struct {
	Name        string `json:"name"`
	Level       string `json:"level"`
	Description string `json:"description"`
	Diagnostics bool   `json:"diagnostics"` // permutation and convergence apply
}

func toMeasureInfo(defs []measures.Definition) []measureInfo {
	out := make([]measureInfo, len(defs))
	for i, d := range defs {
		out[i] = measureInfo{
			Name:        d.Name,
			Level:       string(d.Level),
			Description: d.Description,
			Diagnostics: d.Level == measures.GraphLevel,
		}
	}
	return out
}

// WriteMeasures outputs the measure catalog, dispatching based on the output format configured.
func WriteMeasures(defs []measures.Definition, cfg *contract.Config) error {
	infos := toMeasureInfo(defs)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, infos)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"name", "level", "description"}, func(csvWriter *csv.Writer) error {
				for _, m := range infos {
					if err := csvWriter.Write([]string{m.Name, m.Level, m.Description}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is only available for extract results")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMeasuresTable(w, infos)
		}, "Wrote table")
	}
}

// writeMeasuresTable renders the catalog with pairwise strategies as a footer.
func writeMeasuresTable(writer io.Writer, infos []measureInfo) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Name", "Level", "Description"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, m := range infos {
		data = append(data, []string{m.Name, m.Level, m.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := io.WriteString(writer, "Pairwise strategies: "+strings.Join(measures.PairwiseNames(), ", ")+"\n")
	return err
}
