// Package catddo holds the Cat DDO portfolio model and the preparation,
// aggregation and text steps of the dashboard report.
package catddo

import "fmt"

type Status string

const (
	StatusActive   Status = "Active"
	StatusClosed   Status = "Closed"
	StatusPipeline Status = "Pipeline"
	StatusDropped  Status = "Dropped"
)

type Source string

const (
	SourceIBRD Source = "IBRD"
	SourceIDA  Source = "IDA"
)

// OperationType tells a standalone Cat DDO from one mixed into a DPO.
type OperationType string

const (
	TypeStandalone OperationType = "Standalone"
	TypeMixed      OperationType = "Mixed"
)

var (
	knownStatuses = []Status{StatusActive, StatusClosed, StatusPipeline, StatusDropped}
	knownSources  = []Source{SourceIBRD, SourceIDA}
	knownTypes    = []OperationType{TypeStandalone, TypeMixed}
)

// Operation is one prepared row of the portfolio table. Amounts are in US$.
type Operation struct {
	ID         string
	Country    string
	Region     string
	FiscalYear int
	Status     Status
	Source     Source
	Type       OperationType

	// Disbursements is aligned with Portfolio.Columns.
	Disbursements []float64

	Disbursed        float64
	DisbursedIBRD    float64
	DisbursedIDA     float64
	Undisbursed      float64
	UndisbursedIBRD  float64
	UndisbursedIDA   float64
	CommitmentCatDDO float64
	CommitmentAll    float64
}

// FYLabel is the display label of the approval year, e.g. '19.
func (o Operation) FYLabel() string { return FYLabel(o.FiscalYear) }

// FYColumn is a yearly disbursement column of the portfolio table.
type FYColumn struct {
	Name  string
	Year  int
	Label string
}

// Portfolio is the prepared portfolio: no Dropped operations, all yearly
// disbursement columns in ascending year order, and the display window
// ending at the last complete fiscal year.
type Portfolio struct {
	Operations []Operation
	Columns    []FYColumn
	Display    []FYColumn
	Metadata   Metadata
}

// Metadata is the key/value table read once per run.
type Metadata struct {
	UpdateMonth string
	UpdateYear  string
	LastFY      string
}

// CoBenefit is one assessed climate co-benefit record. Amounts are in US$ millions.
type CoBenefit struct {
	ProjectID  string
	Country    string
	FY         string
	Year       int
	Type       OperationType
	Adaptation float64
	Mitigation float64
	Commitment float64

	AdaptationPct float64
	MitigationPct float64
	TotalPct      float64
}

// FigureID is the category label used on the co-benefit charts.
func (c CoBenefit) FigureID() string { return fmt.Sprintf("%s (%s)", c.Country, c.FY) }

// FYLabel formats a fiscal year as an apostrophe and two digits.
func FYLabel(year int) string { return fmt.Sprintf("'%02d", year%100) }
