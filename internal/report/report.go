// Package report renders a catalog for people: an indented text listing,
// CSV spreadsheets, and an HTML page built from Markdown.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dgallion1/bobsbackgrounds/internal/catalog"
)

// Pretty writes an indented listing of every season, episode and burger.
// Absent or empty explanations and notes are left out.
func Pretty(w io.Writer, seasons []catalog.Season) error {
	bw := bufio.NewWriter(w)
	for _, season := range seasons {
		fmt.Fprintf(bw, "Season %d\n", season.Number)
		for _, ep := range season.Episodes {
			fmt.Fprintf(bw, "  Episode %d: %s\n", ep.Number, ep.Name)
			for _, b := range ep.Burgers {
				fmt.Fprintf(bw, "    Burger: %s\n", b.Name)
				if v := value(b.Explanation); v != "" {
					fmt.Fprintf(bw, "      Explanation: %s\n", v)
				}
				if v := value(b.AdditionalInformation); v != "" {
					fmt.Fprintf(bw, "      Additional Information: %s\n", v)
				}
			}
			bw.WriteString("\n")
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
