package formula

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ritzau/glytrait/pkg/logging"
	"github.com/ritzau/glytrait/pkg/meta"
)

//go:embed builtin/*.txt
var builtinFS embed.FS

var builtinFiles = map[meta.Mode]string{
	meta.StructureMode:   "builtin/struc_formula.txt",
	meta.CompositionMode: "builtin/comp_formula.txt",
}

// Builtin returns the built-in formulas of a mode
func Builtin(mode meta.Mode) ([]*Formula, error) {
	name, ok := builtinFiles[mode]
	if !ok {
		return nil, fmt.Errorf("no built-in formulas for mode %q", mode)
	}
	data, err := builtinFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return ReadFile(bytes.NewReader(data))
}

// Load returns the built-in formulas of mode followed by the formulas read
// from user, if not nil. A user formula named like a built-in one is left
// out. Formulas depending on sialic acid linkage are dropped unless
// siaLinkage is set.
func Load(mode meta.Mode, user io.Reader, siaLinkage bool) ([]*Formula, error) {
	formulas, err := Builtin(mode)
	if err != nil {
		return nil, err
	}

	if user != nil {
		custom, err := ReadFile(user)
		if err != nil {
			return nil, err
		}
		builtin := make(map[string]bool, len(formulas))
		for _, f := range formulas {
			builtin[f.Name] = true
		}
		for _, f := range custom {
			if builtin[f.Name] {
				logging.Debug("Skipping user formula that shadows a built-in one", "formula", f.Name)
				continue
			}
			formulas = append(formulas, f)
		}
	}

	if !siaLinkage {
		kept := formulas[:0]
		for _, f := range formulas {
			if !f.Linkage {
				kept = append(kept, f)
			}
		}
		formulas = kept
	}
	return formulas, nil
}

// LoadFile is Load with the user formulas read from path. An empty path
// loads the built-in formulas only.
func LoadFile(mode meta.Mode, path string, siaLinkage bool) ([]*Formula, error) {
	if path == "" {
		return Load(mode, nil, siaLinkage)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening formula file: %w", err)
	}
	defer f.Close()

	formulas, err := Load(mode, f, siaLinkage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return formulas, nil
}

// SaveBuiltin writes the built-in formula files into dir so they can be used
// as a template for custom formulas
func SaveBuiltin(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	targets := map[meta.Mode]string{
		meta.StructureMode:   "struc_builtin_formulas.txt",
		meta.CompositionMode: "comp_builtin_formulas.txt",
	}
	for mode, target := range targets {
		data, err := builtinFS.ReadFile(builtinFiles[mode])
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, target), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		logging.Info("Wrote built-in formulas", "mode", mode, "path", filepath.Join(dir, target))
	}
	return nil
}
