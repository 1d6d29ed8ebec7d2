package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sells-group/player-enrich/internal/enrich"
	"github.com/sells-group/player-enrich/internal/model"
)

// printHead writes the first n enriched rows as an aligned table.
func printHead(out io.Writer, players []model.EnrichedPlayer, n int) {
	if n > len(players) {
		n = len(players)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tPLAYER\tSCHOOL\tBIRTHPLACE\tPER\tMILES")
	_, _ = fmt.Fprintln(w, "-\t------\t------\t----------\t---\t-----")

	for _, e := range players[:n] {
		miles := ""
		if m := e.MilesPtr(); m != nil {
			miles = fmt.Sprintf("%.1f", *m)
		}
		perText := ""
		if e.PER != nil {
			perText = fmt.Sprintf("%.3f", *e.PER)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.Index,
			truncate(e.FullName(), 28),
			truncate(e.SchoolCity, 28),
			truncate(enrich.BirthplaceAddress(e.Player), 36),
			perText,
			miles,
		)
	}
	_ = w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
