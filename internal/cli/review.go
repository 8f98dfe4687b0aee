package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"playbill/internal/production"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

// ReviewCmd returns the review command.
func ReviewCmd(cfg *production.Config) *Command {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	fs.Bool("dry-run", false, "Review interactively but do not write")

	return &Command{
		Flags: fs,
		Usage: "review [flags]",
		Short: "Interactively review records flagged needs_editorial",
		Long: `Walk through records flagged needs_editorial and fill in curated
fields. Inside the prompt: show, themes <a, b, c>, synopsis <text>,
done, skip, quit, help.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execReview(o, cfg, fs)
		},
	}
}

func execReview(o *IO, cfg *production.Config, fs *flag.FlagSet) error {
	dryRun, _ := fs.GetBool("dry-run")

	values, err := production.LoadArray(cfg.ProductionsAbs)
	if err != nil {
		return err
	}

	var queue []int

	for i, v := range values {
		if rec, ok := production.AsRecord(v); ok && rec.NeedsEditorial() {
			queue = append(queue, i)
		}
	}

	if len(queue) == 0 {
		o.Println("nothing to review")

		return nil
	}

	session := &reviewSession{o: o, values: values, queue: queue}

	runErr := session.run()
	if runErr != nil {
		return runErr
	}

	if !session.changed {
		o.Println("no changes")

		return nil
	}

	if dryRun {
		o.Println("dry run: not writing", cfg.ProductionsAbs)

		return nil
	}

	writeErr := production.WriteArray(cfg.ProductionsAbs, session.values)
	if writeErr != nil {
		return writeErr
	}

	o.Printf("reviewed %d of %d records\n", session.reviewed, len(queue))

	return nil
}

// reviewSession is the interactive loop over flagged records.
type reviewSession struct {
	o        *IO
	values   []any
	queue    []int
	reviewed int
	changed  bool
}

func (s *reviewSession) run() error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	s.o.Printf("%d records need editorial review\n", len(s.queue))

	for n, idx := range s.queue {
		rec, _ := production.AsRecord(s.values[idx])

		s.o.Printf("\n[%d/%d] %s\n", n+1, len(s.queue), formatProductionLine(rec))

		quit, err := s.reviewOne(line, rec)
		if err != nil {
			return err
		}

		if quit {
			break
		}
	}

	return nil
}

// reviewOne prompts for edits to a single record until done/skip/quit.
// Returns true when the session should end.
func (s *reviewSession) reviewOne(line *liner.State, rec production.Record) (bool, error) {
	for {
		input, err := line.Prompt("review> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return true, nil
			}

			return true, fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		cmd, rest, _ := strings.Cut(input, " ")

		switch strings.ToLower(cmd) {
		case "show":
			data, marshalErr := json.MarshalIndent(rec, "", "  ")
			if marshalErr != nil {
				return true, fmt.Errorf("encode record: %w", marshalErr)
			}

			s.o.Printf("%s\n", data)

		case "themes":
			themes := parseThemesInput(rest)
			if len(themes) == 0 {
				s.o.Println("usage: themes <theme, theme, ...>")

				continue
			}

			setThemes(rec, themes)
			s.changed = true

		case "synopsis":
			if rest == "" {
				s.o.Println("usage: synopsis <text>")

				continue
			}

			rec[production.FieldSynopsis] = rest
			s.changed = true

		case "done":
			rec[production.FieldNeedsEditorial] = false
			s.changed = true
			s.reviewed++

			return false, nil

		case "skip":
			return false, nil

		case "quit", "q", "exit":
			return true, nil

		case "help", "?":
			s.o.Println("commands: show, themes <a, b, c>, synopsis <text>, done, skip, quit")

		default:
			s.o.Println("unknown command:", cmd, "(type 'help' for commands)")
		}
	}
}

// parseThemesInput splits a comma-separated themes list, trimming
// whitespace and dropping empty entries.
func parseThemesInput(raw string) []string {
	var themes []string

	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			themes = append(themes, trimmed)
		}
	}

	return themes
}

// setThemes stores themes in the record in its JSON-decoded shape, so a
// later merge comparison sees the same types a file round-trip produces.
func setThemes(rec production.Record, themes []string) {
	items := make([]any, len(themes))
	for i, theme := range themes {
		items[i] = theme
	}

	rec[production.FieldThemes] = items
}
