package cli

import (
	"context"
	"fmt"

	"playbill/internal/production"

	flag "github.com/spf13/pflag"
)

// ValidateCmd returns the validate command.
func ValidateCmd(cfg *production.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("validate", flag.ContinueOnError),
		Usage: "validate",
		Short: "Check the productions dataset for structural problems",
		Long: `Check the productions dataset: every entry must be an object with a
non-empty string id, ids must be unique, and curated fields should be
present. Problems are reported as warnings and make the exit code nonzero.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execValidate(o, cfg)
		},
	}
}

func execValidate(o *IO, cfg *production.Config) error {
	values, err := production.LoadArray(cfg.ProductionsAbs)
	if err != nil {
		return err
	}

	seen := make(map[string]int, len(values))

	for i, v := range values {
		rec, ok := production.AsRecord(v)
		if !ok {
			o.Warn(fmt.Sprintf("entry %d: not a JSON object", i))

			continue
		}

		id := rec.ID()
		if id == "" {
			o.Warn(fmt.Sprintf("entry %d: missing or empty id", i))

			continue
		}

		if prev, dup := seen[id]; dup {
			// The merge index resolves duplicates last-wins; flag them so
			// editors can repair the dataset instead.
			o.Warn(fmt.Sprintf("entry %d: duplicate id %q (first at entry %d)", i, id, prev))
		}

		seen[id] = i

		if !production.IsSlug(id) {
			o.Warn(fmt.Sprintf("entry %d: id %q is not in slug form (want %q)", i, id, production.Slug(id)))
		}

		for _, field := range cfg.CuratedFields {
			if _, has := rec[field]; !has {
				o.Warn(fmt.Sprintf("entry %d (%s): missing curated field %q", i, id, field))
			}
		}
	}

	o.Println("checked", len(values), "records")

	return nil
}
