// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mapcmd_test

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/resplot/cmd/resplot/mapcmd"
	"github.com/js-arias/resplot/internal/casetest"
)

func execute(t testing.TB, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	mapcmd.Command.SetStdout(&out)
	mapcmd.Command.SetStderr(&errOut)
	err := mapcmd.Command.Execute(args)
	return errOut.String(), err
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	base := casetest.WriteIn(t, dir, "CASE")
	left := casetest.WriteIn(t, dir, "LEFT")
	right := casetest.WriteIn(t, dir, "RIGHT")

	tests := map[string]struct {
		args  []string
		files []string
	}{
		"restart": {
			args:  []string{"-v", "pressure", "-r", "1", base},
			files: []string{"case_pressure_i,1,k_t1.png"},
		},
		"last restart": {
			args:  []string{"-v", "pressure,porv", base},
			files: []string{"case_porv_i,1,k_t5.png", "case_pressure_i,1,k_t5.png"},
		},
		"yz slide": {
			args:  []string{"-v", "pressure", "-s", "1,,", base},
			files: []string{"case_pressure_1,j,k_t5.png"},
		},
		"slides": {
			args:  []string{"-v", "pressure", "-s", ",1, ,2,", base},
			files: []string{"case_pressure_i,1,k_t5.png", "case_pressure_i,2,k_t5.png"},
		},
		"slide per case": {
			args:  []string{"-v", "pressure", "-s", ",1, ,2,", "--filter", ",fipnum == 2", left, right},
			files: []string{"left_pressure_i,1,k_t5.png", "right_pressure_i,2,k_t5.png"},
		},
		"repeated case": {
			args:  []string{"-v", "pressure", base, base},
			files: []string{"case_pressure_i,1,k_t5.png", "case_pressure_i,1,k_t5_1.png"},
		},
		"save": {
			args:  []string{"-v", "pressure", "--save", "press", base},
			files: []string{"press.png"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			out := t.TempDir()
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

func TestRunMask(t *testing.T) {
	base := casetest.Write(t)
	out := t.TempDir()

	// in the first row the active cell has fipnum 1
	// and the other cell is inactive,
	// so all the cells are masked.
	errOut, err := execute(t, "-o", out, "-v", "pressure", "--mask", "fipnum - 1", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(errOut, "WARNING") {
		t.Errorf("stderr: got %q, want a warning", errOut)
	}
	if got := casetest.Files(t, out); len(got) != 0 {
		t.Errorf("files: got %v, want none", got)
	}

	if _, err := execute(t, "-o", out, "-v", "pressure", "-s", ",2,", "--mask", "fipnum - 1", base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	casetest.Exists(t, out, "case_pressure_i,2,k_t5.png")
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	left := casetest.WriteIn(t, dir, "LEFT")
	right := casetest.WriteIn(t, dir, "RIGHT")

	tests := map[string][]string{
		"no case":          {"-v", "pressure"},
		"filters":          {"-v", "pressure", "--filter", "fipnum == 1,fipnum == 2,fipnum == 3", left, right},
		"unknown variable": {"-v", "sgas", left},
		"slide":            {"-v", "pressure", "-s", ",3,", left},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			args := append([]string{"-o", filepath.Join(dir, "out")}, args...)
			if _, err := execute(t, args...); err == nil {
				t.Errorf("args %v: expecting error", args)
			}
		})
	}
}
