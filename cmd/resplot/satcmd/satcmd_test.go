// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package satcmd_test

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/resplot/cmd/resplot/satcmd"
	"github.com/js-arias/resplot/internal/casetest"
)

func execute(t testing.TB, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	satcmd.Command.SetStdout(&out)
	satcmd.Command.SetStderr(&errOut)
	err := satcmd.Command.Execute(args)
	return out.String(), err
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	left := casetest.WriteIn(t, dir, "LEFT")
	right := casetest.WriteIn(t, dir, "RIGHT")

	tests := map[string]struct {
		args  []string
		files []string
	}{
		"default": {
			args:  []string{left},
			files: []string{"left_krw.png"},
		},
		"functions": {
			args:  []string{"-v", "krow,krw1", "--labels", "old table  new table", left, right},
			files: []string{"left_krow.png"},
		},
		"save": {
			args:  []string{"--save", "water", left},
			files: []string{"water.png"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "plots")
			args := append([]string{"-o", out}, test.args...)
			if _, err := execute(t, args...); err != nil {
				t.Fatalf("args %v: unexpected error: %v", args, err)
			}
			if got := casetest.Files(t, out); !reflect.DeepEqual(got, test.files) {
				t.Errorf("args %v: files: got %v, want %v", args, got, test.files)
			}
		})
	}
}

func TestList(t *testing.T) {
	base := casetest.Write(t)
	out := t.TempDir()

	got, err := execute(t, "-o", out, "--list", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "CASE\tkrw,krow,pcow"
	if strings.TrimSpace(got) != want {
		t.Errorf("list: got %q, want %q", got, want)
	}
	if files := casetest.Files(t, out); len(files) != 0 {
		t.Errorf("list: files: got %v, want none", files)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	left := casetest.WriteIn(t, dir, "LEFT")
	right := casetest.WriteIn(t, dir, "RIGHT")
	out := t.TempDir()

	tests := map[string][]string{
		"no case":  {},
		"quantity": {"-v", "krx", left},
		"table":    {"-v", "krw2", left},
		"missing":  {"-v", "krg", left},
		"labels":   {"--labels", "a b c", left, right},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			args := append([]string{"-o", out}, args...)
			if _, err := execute(t, args...); err == nil {
				t.Errorf("args %v: expecting error", args)
			}
		})
	}
}
