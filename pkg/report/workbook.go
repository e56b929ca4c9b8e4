package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/ritzau/glytrait/pkg/frame"
	"github.com/ritzau/glytrait/pkg/logging"
)

const (
	SummarySheet     = "Summary"
	TraitValuesSheet = "Trait values"
	DefinitionsSheet = "Trait definitions"
	MetaSheet        = "Meta properties"
)

// WriteWorkbook saves r as an XLSX workbook at path
func WriteWorkbook(path string, r *Result) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	heading, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	w := &workbook{file: f, bold: bold, heading: heading}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	for _, name := range []string{TraitValuesSheet, DefinitionsSheet, MetaSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	steps := []struct {
		name  string
		write func(*Result) error
	}{
		{SummarySheet, w.summary},
		{TraitValuesSheet, w.traitValues},
		{DefinitionsSheet, w.definitions},
		{MetaSheet, w.metaProperties},
	}
	for _, s := range steps {
		if err := s.write(r); err != nil {
			return fmt.Errorf("writing sheet %s: %w", s.name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	logging.Info("Wrote workbook", "path", path, "direct", r.DirectCount(), "derived", r.DerivedCount())
	return nil
}

type workbook struct {
	file    *excelize.File
	bold    int
	heading int
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (w *workbook) row(sheet string, row int, values ...any) error {
	return w.file.SetSheetRow(sheet, cell(1, row), &values)
}

func (w *workbook) section(sheet string, row int, title string) error {
	if err := w.file.SetCellValue(sheet, cell(1, row), title); err != nil {
		return err
	}
	if err := w.file.MergeCell(sheet, cell(1, row), cell(2, row)); err != nil {
		return err
	}
	return w.file.SetCellStyle(sheet, cell(1, row), cell(2, row), w.heading)
}

func (w *workbook) summary(r *Result) error {
	const sheet = SummarySheet
	row := 1
	if err := w.row(sheet, row, "GlyTrait version", r.Version); err != nil {
		return err
	}
	row++

	if err := w.section(sheet, row, "Options"); err != nil {
		return err
	}
	row++
	for _, s := range r.Settings {
		if err := w.row(sheet, row, s.Name, s.Value); err != nil {
			return err
		}
		row++
	}

	if err := w.section(sheet, row, "Result Overview"); err != nil {
		return err
	}
	row++
	overview := []Setting{
		{"Num. of input glycans", r.InputGlycans},
		{"Num. of glycans after filtering", r.FilteredGlycans},
		{"Num. of direct traits", r.DirectCount()},
		{"Num. of derived traits", r.DerivedCount()},
		{"Total num. of traits", r.DirectCount() + r.DerivedCount()},
		{"Invalid traits removed", r.InvalidTraits},
	}
	if r.CollinearityDone {
		overview = append(overview, Setting{"Collinear traits removed", r.CollinearTraits})
	}
	for _, s := range overview {
		if err := w.row(sheet, row, s.Name, s.Value); err != nil {
			return err
		}
		row++
	}
	return w.file.SetColWidth(sheet, "A", "A", 30)
}

// traitValues writes direct then derived traits side by side under a
// merged group header; missing values stay empty
func (w *workbook) traitValues(r *Result) error {
	const sheet = TraitValuesSheet
	direct, derived := r.DirectCount(), r.DerivedCount()

	if direct > 0 {
		if err := w.group(sheet, 2, direct, "Direct traits"); err != nil {
			return err
		}
	}
	if derived > 0 {
		if err := w.group(sheet, direct+2, derived, "Derived traits"); err != nil {
			return err
		}
	}

	header := []any{"Sample"}
	var frames []*frame.Frame
	for _, f := range []*frame.Frame{r.Direct, r.Derived} {
		if f == nil {
			continue
		}
		frames = append(frames, f)
		for _, c := range f.Cols() {
			header = append(header, c)
		}
	}
	if err := w.row(sheet, 2, header...); err != nil {
		return err
	}
	if err := w.file.SetCellStyle(sheet, cell(1, 2), cell(len(header), 2), w.bold); err != nil {
		return err
	}

	for i, sample := range r.Samples() {
		row := i + 3
		if err := w.file.SetCellValue(sheet, cell(1, row), sample); err != nil {
			return err
		}
		col := 2
		for _, f := range frames {
			for _, v := range f.Row(i) {
				if !math.IsNaN(v) {
					if err := w.file.SetCellValue(sheet, cell(col, row), v); err != nil {
						return err
					}
				}
				col++
			}
		}
	}
	return nil
}

func (w *workbook) group(sheet string, col, width int, title string) error {
	if err := w.file.SetCellValue(sheet, cell(col, 1), title); err != nil {
		return err
	}
	if width > 1 {
		if err := w.file.MergeCell(sheet, cell(col, 1), cell(col+width-1, 1)); err != nil {
			return err
		}
	}
	return w.file.SetCellStyle(sheet, cell(col, 1), cell(col+width-1, 1), w.heading)
}

func (w *workbook) definitions(r *Result) error {
	const sheet = DefinitionsSheet
	if err := w.row(sheet, 1, "Trait Name", "Description", "Expression"); err != nil {
		return err
	}
	if err := w.file.SetCellStyle(sheet, "A1", "C1", w.bold); err != nil {
		return err
	}
	for i, f := range r.Formulas {
		if err := w.row(sheet, i+2, f.Name, f.Description, f.Expression); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) metaProperties(r *Result) error {
	const sheet = MetaSheet
	if r.Meta == nil {
		return nil
	}
	cols := r.Meta.Columns()
	header := []any{"Glycan"}
	for _, c := range cols {
		header = append(header, c.Name)
	}
	if err := w.row(sheet, 1, header...); err != nil {
		return err
	}
	if err := w.file.SetCellStyle(sheet, cell(1, 1), cell(len(header), 1), w.bold); err != nil {
		return err
	}
	for i, id := range r.Meta.IDs() {
		values := []any{id}
		for _, c := range cols {
			values = append(values, c.Value(i))
		}
		if err := w.row(sheet, i+2, values...); err != nil {
			return err
		}
	}
	return nil
}
