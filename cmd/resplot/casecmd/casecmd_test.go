// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package casecmd_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/js-arias/resplot/cmd/resplot/casecmd"
	"github.com/js-arias/resplot/internal/casetest"
	"github.com/js-arias/resplot/simcase"
)

func execute(t testing.TB, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	casecmd.Command.SetStdout(&out)
	casecmd.Command.SetStderr(&errOut)
	err := casecmd.Command.Execute(args)
	return out.String(), err
}

func TestPrint(t *testing.T) {
	base := casetest.Write(t)

	got, err := execute(t, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range []string{
		"Case: CASE",
		"\tdeck: " + base + ".DATA",
		"\tdimensions: 2 x 2 x 1",
		"\tactive cells: 3",
		"Restarts: 6 [0-1825 d]",
		"\tvectors: 3",
		"\ttime steps: 6",
		"Wells: 2",
		"\tPROD: 2,2,1:1",
		"\tINJ: 1,1,1:1",
	} {
		if !strings.Contains(got, w) {
			t.Errorf("output: %q not found in:\n%s", w, got)
		}
	}
}

func TestCaseFile(t *testing.T) {
	base := casetest.Write(t)
	name := filepath.Join(t.TempDir(), "model.tab")

	if _, err := execute(t, "--base", base, name); err != nil {
		t.Fatalf("base: unexpected error: %v", err)
	}
	sc, err := simcase.Open(name)
	if err != nil {
		t.Fatalf("unable to open case file: %v", err)
	}
	if got := len(sc.Sets()); got != 5 {
		t.Errorf("base: datasets: got %d (%v), want 5", got, sc.Sets())
	}

	other := casetest.WriteIn(t, t.TempDir(), "OTHER")
	if _, err := execute(t, "--set", "unrst,"+other+".UNRST smspec,", name); err != nil {
		t.Fatalf("set: unexpected error: %v", err)
	}
	sc, err = simcase.Open(name)
	if err != nil {
		t.Fatalf("unable to open case file: %v", err)
	}
	if got := sc.Path(simcase.UnRst); got != other+".UNRST" {
		t.Errorf("set: unrst: got %q, want %q", got, other+".UNRST")
	}
	if got := sc.Path(simcase.SMSpec); got != "" {
		t.Errorf("set: smspec: got %q, want empty", got)
	}
	if got := sc.Path(simcase.Deck); got != base+".DATA" {
		t.Errorf("set: deck: got %q, want %q", got, base+".DATA")
	}
	if n := sc.Name(); n != "model" {
		t.Errorf("name: got %q, want %q", n, "model")
	}
}

func TestRunErrors(t *testing.T) {
	base := casetest.Write(t)
	dir := t.TempDir()

	tests := map[string][]string{
		"no case":   {},
		"extension": {"--base", base, filepath.Join(dir, "model.csv")},
		"dataset":   {"--set", "rst," + base + ".UNRST", filepath.Join(dir, "model.tab")},
		"not found": {filepath.Join(dir, "NONE")},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := execute(t, args...); err == nil {
				t.Errorf("args %v: expecting error", args)
			}
		})
	}
}
