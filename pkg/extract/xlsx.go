package extract

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// LoadXLSXDir reads the nine extracts from dir as .xlsx workbooks. The first
// sheet is used and its first row is taken as the header, matching the layout
// the operations system produces when exporting to Excel.
func LoadXLSXDir(dir string) (Set, error) {
	set := make(Set, len(ExtractNames))
	for _, name := range ExtractNames {
		table, err := loadXLSX(name, filepath.Join(dir, name+".xlsx"))
		if err != nil {
			return nil, fmt.Errorf("loading %s extract: %w", name, err)
		}
		set[name] = table
	}
	return set, nil
}

func loadXLSX(name, path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open Excel file: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %v", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}
	return NewTable(name, rows[0], rows[1:]), nil
}
