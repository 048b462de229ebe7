package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/bobsbackgrounds/internal/catalog"
)

func str(s string) *string { return &s }

func sample() []catalog.Season {
	return []catalog.Season{
		{Number: 1, Episodes: []catalog.Episode{
			{Number: 1, Name: "Human Flesh", Burgers: []catalog.Burger{
				{Name: "New Bacon-ings", Explanation: str("pun"), AdditionalInformation: str("Comes with bacon.")},
				{Name: "Plain", Explanation: str("")},
			}},
		}},
		{Number: 10, Episodes: []catalog.Episode{
			{Number: 1, Name: "The Ring", Burgers: []catalog.Burger{}},
		}},
	}
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sample()); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	want := `Season 1
  Episode 1: Human Flesh
    Burger: New Bacon-ings
      Explanation: pun
      Additional Information: Comes with bacon.
    Burger: Plain


Season 10
  Episode 1: The Ring


`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("pretty mismatch (-want +got):\n%s", diff)
	}
}

func readCSV(t *testing.T, table string) [][]string {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteTable(&buf, table, sample()); err != nil {
		t.Fatalf("write %s: %v", table, err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back %s: %v", table, err)
	}
	return records
}

func TestWriteTable(t *testing.T) {
	episodes := [][]string{
		{"name", "season", "number"},
		{"Human Flesh", "1", "1"},
		{"The Ring", "10", "1"},
	}
	if diff := cmp.Diff(episodes, readCSV(t, "episodes")); diff != "" {
		t.Errorf("episodes mismatch (-want +got):\n%s", diff)
	}

	burgers := [][]string{
		{"name", "explanation", "season_number", "episode_number", "additional_information"},
		{"New Bacon-ings", "pun", "1", "1", "Comes with bacon."},
		{"Plain", "", "1", "1", ""},
	}
	if diff := cmp.Diff(burgers, readCSV(t, "burgers")); diff != "" {
		t.Errorf("burgers mismatch (-want +got):\n%s", diff)
	}

	if err := WriteTable(&bytes.Buffer{}, "images", sample()); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}
	if IsTable("images") || !IsTable("burgers") {
		t.Error("unexpected IsTable result")
	}
}

func TestWriteSpreadsheets(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spreadsheets")
	paths, err := WriteSpreadsheets(dir, sample())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	want := []string{filepath.Join(dir, "episodes.xlsx"), filepath.Join(dir, "burgers.xlsx")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	f, err := excelize.OpenFile(paths[1])
	if err != nil {
		t.Fatalf("open burgers.xlsx: %v", err)
	}
	defer f.Close()

	cells := map[string]string{
		"A1": "name",
		"E1": "additional_information",
		"A2": "New Bacon-ings",
		"B2": "pun",
		"C2": "1",
		"D2": "1",
		"E2": "Comes with bacon.",
		"A3": "Plain",
		"B3": "",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("burgers", cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("burgers!%s: expected %q, got %q", cell, want, got)
		}
	}
	rows, err := f.GetRows("burgers")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Errorf("expected header plus 2 rows, got %d", len(rows))
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, "episodes", sample()); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("episodes")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"name", "season", "number"},
		{"Human Flesh", "1", "1"},
		{"The Ring", "10", "1"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("episodes mismatch (-want +got):\n%s", diff)
	}

	if err := WriteWorkbook(&bytes.Buffer{}, "images", sample()); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}
}

func TestMarkdown_EscapesCells(t *testing.T) {
	seasons := []catalog.Season{{Number: 2, Episodes: []catalog.Episode{
		{Number: 3, Name: "Bed & Breakfast", Burgers: []catalog.Burger{
			{Name: "Either | Or", AdditionalInformation: str("line one\nline two")},
		}},
	}}}
	got := string(Markdown(seasons))
	if !strings.Contains(got, `| 3 | Bed & Breakfast | Either \| Or |  | line one line two |`) {
		t.Errorf("unexpected markdown:\n%s", got)
	}
}

func TestHTML_RendersTables(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML(&buf, sample()); err != nil {
		t.Fatalf("html: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<h1>Burger of the Day</h1>", "<h2>Season 10</h2>", "<table>", "<td>New Bacon-ings</td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
