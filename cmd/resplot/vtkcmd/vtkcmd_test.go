// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package vtkcmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/resplot/cmd/resplot/vtkcmd"
	"github.com/js-arias/resplot/internal/casetest"
)

func execute(t testing.TB, args ...string) error {
	t.Helper()

	var errOut bytes.Buffer
	vtkcmd.Command.SetStderr(&errOut)
	return vtkcmd.Command.Execute(args)
}

func TestRun(t *testing.T) {
	base := casetest.Write(t)

	tests := map[string]struct {
		args  []string
		files []string
	}{
		"single restart": {
			args:  []string{"-r", "5", base},
			files: []string{"CASE-0005.vtu", "CASE-GRID.vtu", "CASE.pvd"},
		},
		"restart range": {
			args:  []string{"-r", "1,3", base},
			files: []string{"CASE-0001.vtu", "CASE-0002.vtu", "CASE-0003.vtu", "CASE-GRID.vtu", "CASE.pvd"},
		},
		"restart list": {
			args:  []string{"-r", "0,2,5", base},
			files: []string{"CASE-0000.vtu", "CASE-0002.vtu", "CASE-0005.vtu", "CASE-GRID.vtu", "CASE.pvd"},
		},
		"static fields": {
			args:  []string{"-v", "porv,fipnum", base},
			files: []string{"CASE-GRID.vtu"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			out := t.TempDir()
			args := append([]string{"-o", out}, test.args...)
			if err := execute(t, args...); err != nil {
				t.Fatalf("args %v: unexpected error: %v", args, err)
			}
			if got := casetest.Files(t, out); !reflect.DeepEqual(got, test.files) {
				t.Errorf("args %v: files: got %v, want %v", args, got, test.files)
			}
		})
	}
}

func TestCollection(t *testing.T) {
	base := casetest.Write(t)
	out := t.TempDir()
	if err := execute(t, "-o", out, "-v", "pressure", "-r", "2,5", base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(out, "CASE.pvd"))
	if err != nil {
		t.Fatalf("unable to read collection: %v", err)
	}
	pvd := string(b)
	if n := strings.Count(pvd, "<DataSet "); n != 3 {
		t.Errorf("collection: got %d datasets, want 3", n)
	}
	for _, w := range []string{`timestep="1825"`, `file="CASE-0005.vtu"`} {
		if !strings.Contains(pvd, w) {
			t.Errorf("collection: %s not found in %q", w, pvd)
		}
	}
}

func TestRunErrors(t *testing.T) {
	base := casetest.Write(t)
	out := t.TempDir()

	tests := map[string][]string{
		"no case":      {},
		"out of range": {"-r", "6", base},
		"decreasing":   {"-r", "3,1", base},
		"unknown":      {"-v", "sgas", base},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			args := append([]string{"-o", out}, args...)
			if err := execute(t, args...); err == nil {
				t.Errorf("args %v: expecting error", args)
			}
		})
	}
}
