package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ritzau/glytrait/pkg/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun_Composition(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := "Composition,S1,S2,S3\n" +
		"H5N4F1S2,1,2,3\n" +
		"H5N4S2,1,1,1\n" +
		"H5N4F1,2,1,1\n"
	if err := os.WriteFile("abundance.csv", []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "abundance.csv", "-m", "c", "-i", "zero")
	if err != nil {
		t.Fatalf("run error = %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "abundance_glytrait.xlsx")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
	for _, want := range []string{"Samples: 3", "composition", "abundance_glytrait.xlsx"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("in.csv", []byte("Composition,S1\nH5N4,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		key  string
	}{
		{"missing input", []string{"nothing.csv"}, "input"},
		{"bad mode", []string{"in.csv", "-m", "glycome"}, "mode"},
		{"bad ratio", []string{"in.csv", "-m", "c", "-r", "2"}, "filter-ratio"},
		{"bad verbosity", []string{"in.csv", "--verbosity", "loud"}, "verbosity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			var cerr *config.ConfigError
			if !errors.As(err, &cerr) || cerr.Key != tt.key {
				t.Errorf("error = %v, want ConfigError for %s", err, tt.key)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "formulas")
	out, err := execute(t, "template", dir)
	if err != nil {
		t.Fatalf("template error = %v", err)
	}
	for _, name := range []string{"struc_builtin_formulas.txt", "comp_builtin_formulas.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if !strings.Contains(out, dir) {
		t.Errorf("output = %q", out)
	}

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "template", file); err == nil {
		t.Error("expected error for a file target")
	}
}
