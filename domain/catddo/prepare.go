package catddo

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"catddo-stats/domain/config"

	lo "github.com/samber/lo"
)

// NewMetadata picks the required keys out of the key/value table.
func NewMetadata(values map[string]string, keys config.MetadataKeys) (Metadata, error) {
	var m Metadata
	for _, kv := range []struct {
		key string
		dst *string
	}{
		{keys.UpdateMonth, &m.UpdateMonth},
		{keys.UpdateYear, &m.UpdateYear},
		{keys.LastFY, &m.LastFY},
	} {
		v, ok := values[kv.key]
		if !ok || strings.TrimSpace(v) == "" {
			return Metadata{}, NewMissingMetadataKeyError(kv.key)
		}
		*kv.dst = strings.TrimSpace(v)
	}
	return m, nil
}

// ParseFiscalYear reads labels such as "FY10", "FY2010", "'10" or
// "FY10 Cat DDO Disb." and returns the four-digit year.
func ParseFiscalYear(s, prefix string) (int, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, prefix)
	v = strings.TrimPrefix(v, "'")
	end := strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(v)
	}
	digits := v[:end]
	if len(digits) != 2 && len(digits) != 4 {
		return 0, NewSchemaError("%q is not a fiscal year label", s)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, newError(KindSchema, err, "%q is not a fiscal year label", s)
	}
	if len(digits) == 2 {
		n += 2000
	}
	return n, nil
}

// ParseAmount parses a monetary cell. Empty cells count as zero; anything
// else that is not a finite number is an error.
func ParseAmount(s string) (float64, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite amount", v)
	}
	return f, nil
}

// ParseFormattedAmount parses co-benefit cells: the placeholder means zero
// and thousands separators are dropped.
func ParseFormattedAmount(s, placeholder string) (float64, error) {
	v := strings.TrimSpace(s)
	if placeholder != "" && v == placeholder {
		return 0, nil
	}
	return ParseAmount(strings.ReplaceAll(v, ",", ""))
}

// FiscalYearColumns finds the yearly disbursement columns by prefix and
// orders them by year. The sequence must be non-empty and gap-free.
func FiscalYearColumns(t *Table, prefix string) ([]FYColumn, error) {
	names := t.ColumnsWithPrefix(prefix)
	if len(names) == 0 {
		return nil, NewSchemaError("%s: no column starts with %q", t.Name, prefix)
	}
	cols := make([]FYColumn, 0, len(names))
	for _, n := range names {
		y, err := ParseFiscalYear(n, prefix)
		if err != nil {
			return nil, err
		}
		cols = append(cols, FYColumn{Name: n, Year: y, Label: FYLabel(y)})
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Year < cols[j].Year })
	for i := 1; i < len(cols); i++ {
		if cols[i].Year != cols[i-1].Year+1 {
			return nil, NewSchemaError("%s: fiscal year columns %q and %q are not consecutive",
				t.Name, cols[i-1].Name, cols[i].Name)
		}
	}
	return cols, nil
}

// ClipColumns returns the prefix of cols ending at the column named last.
func ClipColumns(cols []FYColumn, last string) ([]FYColumn, error) {
	_, idx, ok := lo.FindIndexOf(cols, func(c FYColumn) bool { return c.Name == last })
	if !ok {
		return nil, NewSchemaError("last fiscal year column %q not found", last).With("column", last)
	}
	return cols[:idx+1], nil
}

// PreparePortfolio turns the raw portfolio table into typed operations,
// dropping Dropped rows and clipping the displayed fiscal years at the
// metadata's last complete fiscal year.
func PreparePortfolio(t *Table, meta Metadata, cols config.PortfolioColumns) (*Portfolio, error) {
	if err := t.Require(
		cols.ID, cols.Country, cols.Region, cols.FiscalYear, cols.Status, cols.Source, cols.Type,
		cols.Disbursed, cols.DisbursedIBRD, cols.DisbursedIDA,
		cols.Undisbursed, cols.UndisbursedIBRD, cols.UndisbursedIDA,
		cols.CommitmentCatDDO, cols.CommitmentAll,
	); err != nil {
		return nil, err
	}

	fyCols, err := FiscalYearColumns(t, cols.FYPrefix)
	if err != nil {
		return nil, err
	}
	display, err := ClipColumns(fyCols, meta.LastFY+cols.FYSuffix)
	if err != nil {
		return nil, err
	}

	p := &Portfolio{Columns: fyCols, Display: display, Metadata: meta}
	for i := range t.Rows {
		row := i + 1
		status := Status(t.Value(i, cols.Status))
		if !lo.Contains(knownStatuses, status) {
			return nil, NewSchemaError("%s row %d: unknown status %q", t.Name, row, status)
		}
		if status == StatusDropped {
			continue
		}
		op, err := parseOperation(t, i, cols, fyCols)
		if err != nil {
			return nil, err
		}
		op.Status = status
		p.Operations = append(p.Operations, op)
	}
	slog.Debug("prepare.portfolio.done", "rows", len(t.Rows), "operations", len(p.Operations),
		"fy_columns", len(fyCols), "displayed", len(display))
	return p, nil
}

func parseOperation(t *Table, i int, cols config.PortfolioColumns, fyCols []FYColumn) (Operation, error) {
	row := i + 1
	op := Operation{
		ID:      t.Value(i, cols.ID),
		Country: t.Value(i, cols.Country),
		Region:  t.Value(i, cols.Region),
		Source:  Source(t.Value(i, cols.Source)),
		Type:    OperationType(t.Value(i, cols.Type)),
	}
	if !lo.Contains(knownSources, op.Source) {
		return op, NewSchemaError("%s row %d: unknown source %q", t.Name, row, op.Source)
	}
	if !lo.Contains(knownTypes, op.Type) {
		return op, NewSchemaError("%s row %d: unknown operation type %q", t.Name, row, op.Type)
	}
	fy, err := ParseFiscalYear(t.Value(i, cols.FiscalYear), cols.FYLabelPrefix)
	if err != nil {
		return op, err
	}
	op.FiscalYear = fy

	amount := func(col string) float64 {
		if err != nil {
			return 0
		}
		raw := t.Value(i, col)
		var v float64
		v, err = ParseAmount(raw)
		if err != nil {
			err = NewNumericParseError(col, row, raw, err)
		}
		return v
	}
	op.Disbursed = amount(cols.Disbursed)
	op.DisbursedIBRD = amount(cols.DisbursedIBRD)
	op.DisbursedIDA = amount(cols.DisbursedIDA)
	op.Undisbursed = amount(cols.Undisbursed)
	op.UndisbursedIBRD = amount(cols.UndisbursedIBRD)
	op.UndisbursedIDA = amount(cols.UndisbursedIDA)
	op.CommitmentCatDDO = amount(cols.CommitmentCatDDO)
	op.CommitmentAll = amount(cols.CommitmentAll)
	op.Disbursements = make([]float64, len(fyCols))
	for j, c := range fyCols {
		op.Disbursements[j] = amount(c.Name)
	}
	return op, err
}

// PrepareCoBenefits keeps the assessed records of portfolio operations and
// derives their co-benefit percentages. A record with zero total commitment
// is skipped or rejected according to cols.ZeroCommitment.
func PrepareCoBenefits(t *Table, p *Portfolio, cols config.CoBenefitColumns) ([]CoBenefit, error) {
	if err := t.Require(cols.Assessed, cols.ProjectID, cols.Country, cols.FY,
		cols.Adaptation, cols.Mitigation, cols.Commitment); err != nil {
		return nil, err
	}
	types := lo.SliceToMap(p.Operations, func(o Operation) (string, OperationType) { return o.ID, o.Type })

	var out []CoBenefit
	for i := range t.Rows {
		row := i + 1
		if t.Value(i, cols.Assessed) != cols.AssessedValue {
			continue
		}
		id := t.Value(i, cols.ProjectID)
		typ, ok := types[id]
		if !ok {
			continue
		}
		cb := CoBenefit{
			ProjectID: id,
			Country:   t.Value(i, cols.Country),
			FY:        t.Value(i, cols.FY),
			Type:      typ,
		}
		year, err := ParseFiscalYear(cb.FY, cols.FYLabelPrefix)
		if err != nil {
			return nil, err
		}
		cb.Year = year
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{cols.Adaptation, &cb.Adaptation},
			{cols.Mitigation, &cb.Mitigation},
			{cols.Commitment, &cb.Commitment},
		} {
			raw := t.Value(i, f.col)
			v, err := ParseFormattedAmount(raw, cols.Placeholder)
			if err != nil {
				return nil, NewNumericParseError(f.col, row, raw, err)
			}
			*f.dst = v
		}
		if cb.Commitment == 0 {
			if cols.ZeroCommitment == config.ZeroCommitmentError {
				return nil, NewDivisionByZeroError("%s row %d: project %s has zero total commitment", t.Name, row, id).
					With("project_id", id)
			}
			slog.Warn("cobenefits.skip", "project_id", id, "reason", "zero total commitment")
			continue
		}
		cb.AdaptationPct = 100 * cb.Adaptation / cb.Commitment
		cb.MitigationPct = 100 * cb.Mitigation / cb.Commitment
		cb.TotalPct = cb.AdaptationPct + cb.MitigationPct
		out = append(out, cb)
	}
	return out, nil
}
