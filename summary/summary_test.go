// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package summary_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/js-arias/resplot/ecl"
	"github.com/js-arias/resplot/summary"
)

func newSummaryFiles() (spec, data *ecl.File) {
	spec = ecl.New()
	spec.Add(ecl.NewInts("DIMENS", []int32{7, 3, 2, 4, 0, 0}))
	spec.Add(ecl.NewStrings("KEYWORDS", []string{"TIME", "FOPR", "WBHP", "WBHP", "RGIP", "BPR", "CWIR", "AAQR", "WOPR"}))
	spec.Add(ecl.NewStrings("WGNAMES", []string{":+:+:+:+", ":+:+:+:+", "PROD", "INJ", ":+:+:+:+", ":+:+:+:+", "INJ", ":+:+:+:+", ":+:+:+:+"}))
	spec.Add(ecl.NewInts("NUMS", []int32{0, 0, 0, 0, 3, 11, 4, 1, 0}))
	spec.Add(ecl.NewStrings("UNITS", []string{"DAYS", "SM3/DAY", "BARSA", "BARSA", "SM3", "BARSA", "SM3/DAY", "SM3/DAY", "SM3/DAY"}))

	data = ecl.New()
	for step := 0; step < 3; step++ {
		data.Add(ecl.NewInts("SEQHDR", []int32{int32(step)}))
		data.Add(ecl.NewInts("MINISTEP", []int32{int32(step)}))
		s := float32(step)
		data.Add(ecl.NewReals("PARAMS", []float32{s * 10, 100 + s, 200, 300, 4, 5, 6, 7, 8}))
	}
	return spec, data
}

func TestRead(t *testing.T) {
	s, err := summary.Read(newSummaryFiles())
	if err != nil {
		t.Fatalf("unable to read summary: %v", err)
	}

	want := []string{"AAQR:1", "BPR:2,2,2", "CWIR:INJ:4", "FOPR", "RGIP:3", "TIME", "WBHP:INJ", "WBHP:PROD"}
	if !reflect.DeepEqual(s.Keys(), want) {
		t.Errorf("keys: got %v, want %v", s.Keys(), want)
	}
	if s.Len() != 3 {
		t.Errorf("steps: got %d, want %d", s.Len(), 3)
	}

	tm, err := s.Time()
	if err != nil {
		t.Fatalf("time: %v", err)
	}
	if !reflect.DeepEqual(tm, []float64{0, 10, 20}) {
		t.Errorf("time: got %v, want %v", tm, []float64{0, 10, 20})
	}
	v, err := s.Vector("fopr")
	if err != nil {
		t.Fatalf("FOPR: %v", err)
	}
	if !reflect.DeepEqual(v, []float64{100, 101, 102}) {
		t.Errorf("FOPR: got %v, want %v", v, []float64{100, 101, 102})
	}
	if v, _ := s.Vector("WBHP:INJ"); v[0] != 300 {
		t.Errorf("WBHP:INJ: got %v, want 300", v)
	}
	if u := s.Units("BPR:2,2,2"); u != "BARSA" {
		t.Errorf("units: got %q, want %q", u, "BARSA")
	}
	if !s.Has("rgip:3") || s.Has("WOPR") {
		t.Errorf("has: got %v and %v, want true and false", s.Has("rgip:3"), s.Has("WOPR"))
	}
	if _, err := s.Vector("FGIP"); !errors.Is(err, summary.ErrNoVector) {
		t.Errorf("missing vector: got error %v, want %v", err, summary.ErrNoVector)
	}

	spec, data := newSummaryFiles()
	data.Add(ecl.NewReals("PARAMS", []float32{1, 2}))
	if _, err := summary.Read(spec, data); err == nil {
		t.Errorf("short PARAMS: expecting error")
	}
}

func TestWrite(t *testing.T) {
	vecs := map[string][]float64{
		"TIME":      {0, 1, 2},
		"FGIP":      {10, 20, 30},
		"WBHP:PROD": {5, 6, 7},
		"RPR:2":     {1, 1, 2},
	}
	units := map[string]string{
		"TIME": "DAYS",
		"FGIP": "SM3",
	}
	s, err := summary.New(vecs, units)
	if err != nil {
		t.Fatalf("unable to create summary: %v", err)
	}

	ns, err := summary.Read(s.Write())
	if err != nil {
		t.Fatalf("unable to read summary: %v", err)
	}
	if !reflect.DeepEqual(ns.Keys(), s.Keys()) {
		t.Errorf("keys: got %v, want %v", ns.Keys(), s.Keys())
	}
	for key, want := range vecs {
		got, err := ns.Vector(key)
		if err != nil {
			t.Errorf("%s: %v", key, err)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %v, want %v", key, got, want)
		}
	}
	if u := ns.Units("fgip"); u != "SM3" {
		t.Errorf("units: got %q, want %q", u, "SM3")
	}

	if _, err := summary.New(map[string][]float64{"FGIP": {1}, "FOPR": {1, 2}}, nil); err == nil {
		t.Errorf("vectors of different length: expecting error")
	}
}
