package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type messageOutput struct {
	Message string `json:"message"`
}

func (a *app) bindOutput(fs *pflag.FlagSet) {
	fs.StringVarP(&a.format, "output", "o", a.format, "output format: table, json or yaml")
}

func (a *app) checkFormat() error {
	switch a.format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", a.format)
}

// render writes v as JSON or YAML, or calls table with a tabwriter.
func (a *app) render(v any, table func(w io.Writer)) error {
	switch a.format {
	case formatJSON:
		enc := json.NewEncoder(a.env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		return writeYAML(a.env.Stdout, v)
	}
	tw := tabwriter.NewWriter(a.env.Stdout, 2, 0, 3, ' ', 0)
	table(tw)
	return tw.Flush()
}

func (a *app) say(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return a.render(messageOutput{Message: msg}, func(w io.Writer) { fmt.Fprintln(w, msg) })
}

// writeYAML goes through JSON so the keys match the wire names, then clears
// the flow style the JSON syntax leaves on every node.
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func movieTable(movies []domain.Movie) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintln(w, "MOVIE\tTHEATRE\tTICKETS\tSTATUS\tRATING\tREVIEWS")
		for _, m := range movies {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.1f\t%d\n",
				m.Name, m.TheatreName, m.TicketsAvailable, m.Status, m.Rating, m.ReviewCount)
		}
	}
}

func ticketTable(tickets []domain.Ticket) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintln(w, "TICKET\tUSER\tTHEATRE\tSEATS\tBOOKED")
		for _, t := range tickets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Username, t.TheatreName, strings.Join(t.SeatNumbers, ","), formatTime(t.BookedAt))
		}
	}
}

func reviewTable(reviews []domain.Review) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintln(w, "REVIEW\tMOVIE\tUSER\tRATING\tHELPFUL\tTITLE")
		for _, r := range reviews {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\t%s\n",
				r.ID, r.MovieName, r.Username, r.Rating, r.Helpful, r.Title)
		}
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
