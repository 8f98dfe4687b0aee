package cli

import (
	"strings"
	"testing"
)

const (
	productionsRel = "docs/data/productions.json"
	candidatesRel  = "data/candidates.json"
)

func TestMergeCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		productions string // written to the default productions path; "" = absent
		candidates  string // written to the default candidates path; "" = absent
		args        []string
		wantExit    int
		wantStdout  []string // substrings to find in stdout
		wantStderr  []string // substrings to find in stderr
		notStdout   []string // substrings that should NOT be in stdout
	}{
		{
			name:        "create and update with stats",
			productions: `[{"id":"a","themes":["x"],"city":"NY"}]`,
			candidates:  `[{"id":"a","themes":["y"],"city":"LA"},{"id":"b","themes":["z"]}]`,
			args:        []string{"merge"},
			wantExit:    0,
			wantStdout: []string{
				"candidates found: 2",
				"created: 1",
				"updated: 1",
				"themes unchanged: 0",
				"theme mismatches: 1",
			},
			notStdout: []string{"candidates processed", "skipped"},
		},
		{
			name:        "no changes",
			productions: `[{"id":"a","themes":["x"]}]`,
			candidates:  `[{"id":"a","themes":["x"]}]`,
			args:        []string{"merge"},
			wantExit:    0,
			wantStdout:  []string{"created: 0", "updated: 0", "themes unchanged: 1"},
			notStdout:   []string{"theme mismatches"},
		},
		{
			name:        "limit reported when given",
			productions: `[]`,
			candidates:  `[{"id":"a"},{"id":"b"},{"id":"c"}]`,
			args:        []string{"merge", "--limit", "2"},
			wantExit:    0,
			wantStdout:  []string{"candidates found: 3", "candidates processed: 2", "created: 2"},
		},
		{
			name:        "limit zero rejected",
			productions: `[{"id":"a"}]`,
			candidates:  `[{"id":"b"}]`,
			args:        []string{"merge", "--limit", "0"},
			wantExit:    1,
			wantStderr:  []string{"limit must be a positive integer"},
		},
		{
			name:        "limit negative rejected",
			productions: `[{"id":"a"}]`,
			candidates:  `[{"id":"b"}]`,
			args:        []string{"merge", "--limit", "-1"},
			wantExit:    1,
			wantStderr:  []string{"limit must be a positive integer"},
		},
		{
			name:        "limit non-integer rejected",
			productions: `[{"id":"a"}]`,
			candidates:  `[{"id":"b"}]`,
			args:        []string{"merge", "--limit", "abc"},
			wantExit:    1,
			wantStderr:  []string{"invalid argument"},
		},
		{
			name:       "missing candidates file",
			candidates: "",
			args:       []string{"merge"},
			wantExit:   1,
			wantStderr: []string{"error:", "candidates"},
		},
		{
			name:        "missing productions file",
			productions: "",
			candidates:  `[{"id":"a"}]`,
			args:        []string{"merge"},
			wantExit:    1,
			wantStderr:  []string{"error:", "productions"},
		},
		{
			name:        "non-array candidates rejected",
			productions: `[]`,
			candidates:  `{"id":"a"}`,
			args:        []string{"merge"},
			wantExit:    1,
			wantStderr:  []string{"not an array"},
		},
		{
			name:        "skipped candidates reported",
			productions: `[]`,
			candidates:  `[{"id":"a"}, "junk", {"no":"id"}]`,
			args:        []string{"merge"},
			wantExit:    0,
			wantStdout:  []string{"created: 1", "skipped: 2"},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			app := NewCLI(t)

			if testCase.productions != "" {
				app.WriteFile(productionsRel, testCase.productions)
			}

			if testCase.candidates != "" {
				app.WriteFile(candidatesRel, testCase.candidates)
			}

			stdout, stderr, code := app.Run(testCase.args...)

			if code != testCase.wantExit {
				t.Errorf("exit = %d, want %d\nstdout: %s\nstderr: %s", code, testCase.wantExit, stdout, stderr)
			}

			for _, want := range testCase.wantStdout {
				if !strings.Contains(stdout, want) {
					t.Errorf("stdout missing %q\nstdout: %s", want, stdout)
				}
			}

			for _, want := range testCase.wantStderr {
				if !strings.Contains(stderr, want) {
					t.Errorf("stderr missing %q\nstderr: %s", want, stderr)
				}
			}

			for _, not := range testCase.notStdout {
				if strings.Contains(stdout, not) {
					t.Errorf("stdout has unwanted %q\nstdout: %s", not, stdout)
				}
			}
		})
	}
}

func TestMergeWritesDataset(t *testing.T) {
	t.Parallel()

	app := NewCLI(t)
	app.WriteFile(productionsRel, `[{"id":"a","themes":["x"],"city":"NY"}]`)
	app.WriteFile(candidatesRel, `[{"id":"a","themes":["y"],"city":"LA"},{"id":"b","themes":["z"]}]`)

	app.MustRun("merge")

	written := app.ReadFile(productionsRel)

	for _, want := range []string{`"city": "LA"`, `"id": "b"`} {
		if !strings.Contains(written, want) {
			t.Errorf("written dataset missing %q:\n%s", want, written)
		}
	}

	// Curated themes survive the candidate's value.
	if strings.Contains(written, `"y"`) {
		t.Errorf("candidate themes leaked into dataset:\n%s", written)
	}

	if !strings.HasSuffix(written, "\n") {
		t.Error("written dataset missing trailing newline")
	}
}

func TestMergeDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	original := `[{"id":"a","themes":["x"],"city":"NY"}]`

	app := NewCLI(t)
	app.WriteFile(productionsRel, original)
	app.WriteFile(candidatesRel, `[{"id":"a","city":"LA"},{"id":"b"}]`)

	stdout := app.MustRun("merge", "--dry-run")

	for _, want := range []string{"created: 1", "updated: 1", "dry run"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q\nstdout: %s", want, stdout)
		}
	}

	if got := app.ReadFile(productionsRel); got != original {
		t.Errorf("dry run modified the dataset:\n%s", got)
	}
}

func TestMergeInvalidLimitLeavesDatasetIntact(t *testing.T) {
	t.Parallel()

	original := `[{"id":"a","themes":["x"]}]`

	app := NewCLI(t)
	app.WriteFile(productionsRel, original)
	app.WriteFile(candidatesRel, `[{"id":"b"}]`)

	_, _, code := app.Run("merge", "--limit", "0")
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}

	if got := app.ReadFile(productionsRel); got != original {
		t.Errorf("failed run modified the dataset:\n%s", got)
	}
}

func TestMergeFlagOverridePaths(t *testing.T) {
	t.Parallel()

	app := NewCLI(t)
	app.WriteFile("incoming.json", `[{"id":"b","themes":[]}]`)
	app.WriteFile("shows.json", `[]`)

	stdout := app.MustRun("merge", "--candidates", "incoming.json", "--output", "shows.json")

	if !strings.Contains(stdout, "created: 1") {
		t.Errorf("stdout missing created count: %s", stdout)
	}

	if !strings.Contains(app.ReadFile("shows.json"), `"id": "b"`) {
		t.Error("override output file not written")
	}
}

func TestMergeIdempotentRuns(t *testing.T) {
	t.Parallel()

	app := NewCLI(t)
	app.WriteFile(productionsRel, `[{"id":"a","themes":["x"],"city":"NY"}]`)
	app.WriteFile(candidatesRel, `[{"id":"a","themes":["y"],"city":"LA"},{"id":"b","themes":["z"]}]`)

	app.MustRun("merge")
	stdout := app.MustRun("merge")

	for _, want := range []string{"created: 0", "updated: 0", "themes unchanged: 2"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("second run stdout missing %q\nstdout: %s", want, stdout)
		}
	}
}
