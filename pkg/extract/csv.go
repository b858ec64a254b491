package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// LoadDir reads the nine CSV extracts from dir. Any missing or unparseable
// extract is a fatal load error: the pipeline must not start on partial data.
func LoadDir(dir string) (Set, error) {
	set := make(Set, len(ExtractNames))
	for _, name := range ExtractNames {
		table, err := loadCSV(name, filepath.Join(dir, name+".csv"))
		if err != nil {
			return nil, fmt.Errorf("loading %s extract: %w", name, err)
		}
		set[name] = table
	}
	return set, nil
}

func loadCSV(name, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Extracts occasionally carry ragged rows; short rows read as "".
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}
	return NewTable(name, records[0], records[1:]), nil
}
