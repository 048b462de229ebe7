package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/bobsbackgrounds/internal/catalog"
)

// ErrUnknownTable is returned for a spreadsheet name other than those in Tables.
var ErrUnknownTable = errors.New("report: unknown table")

// Tables lists the spreadsheet names WriteTable accepts, in export order.
var Tables = []string{"episodes", "burgers"}

// table builds the header and rows of a named spreadsheet. Numbers stay ints
// and absent strings stay nil so the workbook gets typed and empty cells.
//
// episodes: name, season, number
// burgers:  name, explanation, season_number, episode_number, additional_information
func table(name string, seasons []catalog.Season) ([]string, [][]any, error) {
	var rows [][]any
	switch name {
	case "episodes":
		for _, s := range seasons {
			for _, ep := range s.Episodes {
				rows = append(rows, []any{ep.Name, s.Number, ep.Number})
			}
		}
		return []string{"name", "season", "number"}, rows, nil
	case "burgers":
		for _, s := range seasons {
			for _, ep := range s.Episodes {
				for _, b := range ep.Burgers {
					rows = append(rows, []any{
						b.Name, optional(b.Explanation),
						s.Number, ep.Number,
						optional(b.AdditionalInformation),
					})
				}
			}
		}
		return []string{"name", "explanation", "season_number", "episode_number", "additional_information"}, rows, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// WriteTable writes the named spreadsheet as CSV with a header row.
func WriteTable(w io.Writer, name string, seasons []catalog.Season) error {
	header, rows, err := table(name, seasons)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: write %s header: %w", name, err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, v := range row {
			switch v := v.(type) {
			case nil:
				record[i] = ""
			case int:
				record[i] = strconv.Itoa(v)
			default:
				record[i] = fmt.Sprint(v)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("report: write %s rows: %w", name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: write %s rows: %w", name, err)
	}
	return nil
}

// WriteWorkbook writes the named spreadsheet as an xlsx workbook holding one
// sheet of the same name.
func WriteWorkbook(w io.Writer, name string, seasons []catalog.Season) error {
	f, err := workbook(name, seasons)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("report: write %s workbook: %w", name, err)
	}
	return nil
}

func workbook(name string, seasons []catalog.Season) (*excelize.File, error) {
	header, rows, err := table(name, seasons)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		f.Close()
		return nil, fmt.Errorf("report: name sheet %s: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("report: write %s header: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("report: write %s row %d: %w", name, i+1, err)
		}
	}
	return f, nil
}

// IsTable reports whether name is one of Tables.
func IsTable(name string) bool {
	return slices.Contains(Tables, name)
}

// WriteSpreadsheets writes every table to <dir>/<table>.xlsx and returns the
// paths written.
func WriteSpreadsheets(dir string, seasons []catalog.Season) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: mkdir: %w", err)
	}

	var paths []string
	for _, name := range Tables {
		path := filepath.Join(dir, name+".xlsx")
		f, err := workbook(name, seasons)
		if err != nil {
			return paths, err
		}
		err = f.SaveAs(path)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("report: save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
