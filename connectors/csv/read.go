package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"catddo-stats/domain/catddo"
	"catddo-stats/domain/config"
)

// ReadTable loads a delimited file with a header row. Header names are trimmed.
func ReadTable(path string) (*catddo.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, catddo.NewMissingFileError(path, err)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Width is checked by catddo.NewTable so the error names the table.
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, catddo.NewSchemaError("%s: no header row", path)
	}
	return catddo.NewTable(filepath.Base(path), records[0], records[1:])
}

// ReadMetadata loads the Key/Value table and extracts the required keys.
func ReadMetadata(path string, keys config.MetadataKeys) (catddo.Metadata, error) {
	t, err := ReadTable(path)
	if err != nil {
		return catddo.Metadata{}, err
	}
	if err := t.Require(keys.KeyColumn, keys.ValueColumn); err != nil {
		return catddo.Metadata{}, err
	}
	values := make(map[string]string, len(t.Rows))
	for i := range t.Rows {
		values[t.Value(i, keys.KeyColumn)] = t.Value(i, keys.ValueColumn)
	}
	return catddo.NewMetadata(values, keys)
}

// Inputs are the three tables of one run.
type Inputs struct {
	Metadata   catddo.Metadata
	Portfolio  *catddo.Table
	CoBenefits *catddo.Table
}

// ReadInputs reads the metadata, portfolio and co-benefit files of cfg.Dir.
func ReadInputs(cfg config.DataConfig, keys config.MetadataKeys) (*Inputs, error) {
	meta, err := ReadMetadata(filepath.Join(cfg.Dir, cfg.MetadataFile), keys)
	if err != nil {
		return nil, err
	}
	portfolio, err := ReadTable(filepath.Join(cfg.Dir, cfg.PortfolioFile))
	if err != nil {
		return nil, err
	}
	cobenefits, err := ReadTable(filepath.Join(cfg.Dir, cfg.CoBenefitsFile))
	if err != nil {
		return nil, err
	}
	return &Inputs{Metadata: meta, Portfolio: portfolio, CoBenefits: cobenefits}, nil
}
