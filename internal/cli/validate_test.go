package cli

import (
	"strings"
	"testing"
)

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		dataset    string
		wantExit   int
		wantStdout []string
		wantStderr []string
	}{
		{
			name:       "clean dataset",
			dataset:    `[{"id":"hamlet-rsc","themes":["revenge"]},{"id":"tempest-globe","themes":[]}]`,
			wantExit:   0,
			wantStdout: []string{"checked 2 records"},
		},
		{
			name:       "duplicate ids flagged",
			dataset:    `[{"id":"a","themes":[]},{"id":"a","themes":[]}]`,
			wantExit:   1,
			wantStderr: []string{`duplicate id "a"`, "first at entry 0"},
		},
		{
			name:       "non-object entry flagged",
			dataset:    `[{"id":"a","themes":[]}, "junk"]`,
			wantExit:   1,
			wantStderr: []string{"entry 1: not a JSON object"},
		},
		{
			name:       "missing id flagged",
			dataset:    `[{"themes":[]}]`,
			wantExit:   1,
			wantStderr: []string{"entry 0: missing or empty id"},
		},
		{
			name:       "non-slug id flagged",
			dataset:    `[{"id":"Hamlet RSC","themes":[]}]`,
			wantExit:   1,
			wantStderr: []string{"not in slug form"},
		},
		{
			name:       "missing curated field flagged",
			dataset:    `[{"id":"a"}]`,
			wantExit:   1,
			wantStderr: []string{`missing curated field "themes"`},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			app := NewCLI(t)
			app.WriteFile(productionsRel, testCase.dataset)

			stdout, stderr, code := app.Run("validate")

			if code != testCase.wantExit {
				t.Errorf("exit = %d, want %d\nstderr: %s", code, testCase.wantExit, stderr)
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
		})
	}
}
