package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"playbill/internal/production"

	flag "github.com/spf13/pflag"
)

// ShowCmd returns the show command.
func ShowCmd(cfg *production.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <id>",
		Short: "Show one production record",
		Long:  "Print a single production record as pretty JSON.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execShow(o, cfg, args)
		},
	}
}

func execShow(o *IO, cfg *production.Config, args []string) error {
	if len(args) == 0 {
		return production.ErrIDRequired
	}

	id := args[0]

	values, err := production.LoadArray(cfg.ProductionsAbs)
	if err != nil {
		return err
	}

	// Last occurrence wins, matching the merge index tie-break.
	var found production.Record

	for _, v := range values {
		if rec, ok := production.AsRecord(v); ok && rec.ID() == id {
			found = rec
		}
	}

	if found == nil {
		return fmt.Errorf("%w: %s", production.ErrNotFound, id)
	}

	data, err := json.MarshalIndent(found, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	o.Printf("%s\n", data)

	return nil
}
