package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"playbill/internal/production"

	flag "github.com/spf13/pflag"
)

const defaultLsLimit = 100

// LsCmd returns the ls command.
func LsCmd(cfg *production.Config) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.String("play", "", "Filter by play title (case-insensitive)")
	fs.Bool("needs-editorial", false, "Show only records flagged for editorial review")
	fs.Int("limit", defaultLsLimit, "Maximum records to show")
	fs.Int("offset", 0, "Skip first N records")

	return &Command{
		Flags: fs,
		Usage: "ls [flags]",
		Short: "List productions",
		Long:  "List productions from the dataset, in file order.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execLs(o, cfg, fs)
		},
	}
}

func execLs(o *IO, cfg *production.Config, fs *flag.FlagSet) error {
	limit, _ := fs.GetInt("limit")
	if limit < 0 {
		return errors.New("--limit must be non-negative")
	}

	offset, _ := fs.GetInt("offset")
	if offset < 0 {
		return errors.New("--offset must be non-negative")
	}

	playFilter, _ := fs.GetString("play")
	needsEditorial, _ := fs.GetBool("needs-editorial")

	values, err := production.LoadArray(cfg.ProductionsAbs)
	if err != nil {
		return err
	}

	var matched []production.Record

	for i, v := range values {
		rec, ok := production.AsRecord(v)
		if !ok || rec.ID() == "" {
			o.Warn(fmt.Sprintf("%s: entry %d has no usable id", cfg.ProductionsAbs, i))

			continue
		}

		if playFilter != "" && !strings.EqualFold(rec.StringField(production.FieldPlay), playFilter) {
			continue
		}

		if needsEditorial && !rec.NeedsEditorial() {
			continue
		}

		matched = append(matched, rec)
	}

	if offset < len(matched) {
		matched = matched[offset:]
	} else {
		matched = nil
	}

	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	for _, rec := range matched {
		o.Println(formatProductionLine(rec))
	}

	return nil
}

func formatProductionLine(rec production.Record) string {
	var builder strings.Builder

	builder.WriteString(rec.ID())

	if play := rec.StringField(production.FieldPlay); play != "" {
		builder.WriteString(" [")
		builder.WriteString(play)
		builder.WriteString("]")
	}

	if title := rec.StringField(production.FieldTitle); title != "" {
		builder.WriteString(" - ")
		builder.WriteString(title)
	}

	if rec.NeedsEditorial() {
		builder.WriteString(" (needs editorial)")
	}

	return builder.String()
}
