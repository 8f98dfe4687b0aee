package cli

import (
	"context"
	"fmt"

	"playbill/internal/production"

	flag "github.com/spf13/pflag"
)

// MergeCmd returns the merge command.
func MergeCmd(cfg *production.Config) *Command {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	fs.String("candidates", "", "Candidates file (default: candidates_path from config)")
	fs.String("output", "", "Productions file to read and write (default: productions_path from config)")
	fs.Int("limit", 0, "Process only the first N candidates")
	fs.Bool("dry-run", false, "Compute and report, but do not write")

	return &Command{
		Flags: fs,
		Usage: "merge [flags]",
		Short: "Merge candidate records into the productions dataset",
		Long: `Merge discovered candidate records into the productions dataset.

Candidates with a known id update the existing record field by field;
curated fields (themes by default) always keep their existing value.
Candidates with an unknown id are appended verbatim.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execMerge(o, cfg, fs)
		},
	}
}

func execMerge(o *IO, cfg *production.Config, fs *flag.FlagSet) error {
	// Validate the limit before touching either input file.
	limit, _ := fs.GetInt("limit")
	if fs.Changed("limit") && limit < 1 {
		return fmt.Errorf("%w: %d", production.ErrInvalidLimit, limit)
	}

	candidatesPath := cfg.CandidatesAbs
	if path, _ := fs.GetString("candidates"); path != "" {
		candidatesPath = resolvePath(cfg.EffectiveCwd, path)
	}

	outputPath := cfg.ProductionsAbs
	if path, _ := fs.GetString("output"); path != "" {
		outputPath = resolvePath(cfg.EffectiveCwd, path)
	}

	dryRun, _ := fs.GetBool("dry-run")

	candidates, err := production.LoadArray(candidatesPath)
	if err != nil {
		return fmt.Errorf("candidates: %w", err)
	}

	existing, err := production.LoadArray(outputPath)
	if err != nil {
		return fmt.Errorf("productions: %w", err)
	}

	merged, stats, err := production.Merge(candidates, existing, production.MergeOptions{
		Limit:   limit,
		Curated: cfg.CuratedFields,
	})
	if err != nil {
		return err
	}

	o.Println("candidates found:", stats.Candidates)

	if fs.Changed("limit") {
		o.Println("candidates processed:", stats.Processed)
	}

	o.Println("created:", stats.Created)
	o.Println("updated:", stats.Updated)
	o.Println("themes unchanged:", stats.ThemesUnchanged)

	if stats.ThemeMismatches > 0 {
		o.Println("theme mismatches:", stats.ThemeMismatches)
	}

	if stats.Skipped > 0 {
		o.Println("skipped:", stats.Skipped)
	}

	if dryRun {
		o.Println("dry run: not writing", outputPath)

		return nil
	}

	writeErr := production.WriteArray(outputPath, merged)
	if writeErr != nil {
		return fmt.Errorf("productions: %w", writeErr)
	}

	return nil
}
