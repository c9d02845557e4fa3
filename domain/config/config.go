package config

// Config represents the structure of config.yml used by the tool.
// Every input file and every column the pipeline reads is named here; the
// defaults match the layout of the dashboard exports.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Output     OutputConfig     `yaml:"output"`
	Portfolio  PortfolioColumns `yaml:"portfolio"`
	Metadata   MetadataKeys     `yaml:"metadata"`
	CoBenefits CoBenefitColumns `yaml:"cobenefits"`
	Report     ReportConfig     `yaml:"report"`
	Logging    LoggingConfig    `yaml:"logging"`
	Import     ImportConfig     `yaml:"import"`
}

type DataConfig struct {
	Dir            string `yaml:"dir"`
	PortfolioFile  string `yaml:"portfolio_file"`
	MetadataFile   string `yaml:"metadata_file"`
	CoBenefitsFile string `yaml:"cobenefits_file"`
}

type OutputConfig struct {
	Dir         string `yaml:"dir"`
	Charts      bool   `yaml:"charts"`
	ChartFormat string `yaml:"chart_format"` // png|svg
	Workbook    bool   `yaml:"workbook"`
}

// PortfolioColumns names the columns of the portfolio table.
type PortfolioColumns struct {
	ID               string `yaml:"id"`
	Country          string `yaml:"country"`
	Region           string `yaml:"region"`
	FiscalYear       string `yaml:"fiscal_year"`
	Status           string `yaml:"status"`
	Source           string `yaml:"source"`
	Type             string `yaml:"type"`
	Disbursed        string `yaml:"disbursed"`
	DisbursedIBRD    string `yaml:"disbursed_ibrd"`
	DisbursedIDA     string `yaml:"disbursed_ida"`
	Undisbursed      string `yaml:"undisbursed"`
	UndisbursedIBRD  string `yaml:"undisbursed_ibrd"`
	UndisbursedIDA   string `yaml:"undisbursed_ida"`
	CommitmentCatDDO string `yaml:"commitment_catddo"`
	CommitmentAll    string `yaml:"commitment_all"`

	// FYPrefix selects the yearly disbursement columns ("FY10 Cat DDO Disb.").
	FYPrefix      string `yaml:"fy_prefix"`
	// FYSuffix is appended to the Last_FY metadata value to find the last column shown.
	FYSuffix      string `yaml:"fy_suffix"`
	// FYLabelPrefix precedes the year in Fiscal Year cells ("FY19").
	FYLabelPrefix string `yaml:"fy_label_prefix"`
}

type MetadataKeys struct {
	KeyColumn   string `yaml:"key_column"`
	ValueColumn string `yaml:"value_column"`
	UpdateMonth string `yaml:"update_month"`
	UpdateYear  string `yaml:"update_year"`
	LastFY      string `yaml:"last_fy"`
}

type CoBenefitColumns struct {
	Assessed      string `yaml:"assessed"`
	AssessedValue string `yaml:"assessed_value"`
	ProjectID     string `yaml:"project_id"`
	Country       string `yaml:"country"`
	FY            string `yaml:"fy"`
	Adaptation    string `yaml:"adaptation"`
	Mitigation    string `yaml:"mitigation"`
	Commitment    string `yaml:"commitment"`
	Placeholder   string `yaml:"placeholder"`
	FYLabelPrefix string `yaml:"fy_label_prefix"`
	// ZeroCommitment is "skip" or "error".
	ZeroCommitment string `yaml:"zero_commitment"`
}

type ReportConfig struct {
	// FirstFY is the earliest fiscal year on the approval charts, even when
	// no operation was approved in it.
	FirstFY string `yaml:"first_fy"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ImportConfig maps workbook sheets to the CSV inputs written by the import command.
type ImportConfig struct {
	PortfolioSheet  string `yaml:"portfolio_sheet"`
	MetadataSheet   string `yaml:"metadata_sheet"`
	CoBenefitsSheet string `yaml:"cobenefits_sheet"`
}

const (
	ZeroCommitmentSkip  = "skip"
	ZeroCommitmentError = "error"
)

// Default returns the configuration used when no config.yml is present.
func Default() Config {
	return Config{
		Data: DataConfig{
			Dir:            "data",
			PortfolioFile:  "Cat_DDO_Portfolio.csv",
			MetadataFile:   "Cat_DDO_Metadata.csv",
			CoBenefitsFile: "Climate_cobenefits.csv",
		},
		Output: OutputConfig{
			Dir:         "out",
			Charts:      true,
			ChartFormat: "png",
			Workbook:    true,
		},
		Portfolio: PortfolioColumns{
			ID:               "P#",
			Country:          "Country",
			Region:           "Region",
			FiscalYear:       "Fiscal Year",
			Status:           "Status",
			Source:           "Source",
			Type:             "Standalone/Mixed",
			Disbursed:        "Disbursements - Cat DDO Cum.",
			DisbursedIBRD:    "Disbursements - Cat DDO Cum. (IBRD)",
			DisbursedIDA:     "Disbursements - Cat DDO Cum. (IDA)",
			Undisbursed:      "CAT DDO Undisbursed",
			UndisbursedIBRD:  "CAT DDO Undisbursed (IBRD)",
			UndisbursedIDA:   "CAT DDO Undisbursed (IDA)",
			CommitmentCatDDO: "Commitment (Cat DDO only)",
			CommitmentAll:    "Commitment (All = DPO + Cat DDO)",
			FYPrefix:         "FY",
			FYSuffix:         " Cat DDO Disb.",
			FYLabelPrefix:    "FY",
		},
		Metadata: MetadataKeys{
			KeyColumn:   "Key",
			ValueColumn: "Value",
			UpdateMonth: "Update_Month",
			UpdateYear:  "Update_Year",
			LastFY:      "Last_FY",
		},
		CoBenefits: CoBenefitColumns{
			Assessed:       "Project Assessed",
			AssessedValue:  "Assessed",
			ProjectID:      "Project ID",
			Country:        "Country",
			FY:             "FY",
			Adaptation:     "TN2: Net IDA/IBRD Adaptation ($M)",
			Mitigation:     "TN3: Net IDA/IBRD Mitigation ($M)",
			Commitment:     "TO6: Total IDA/IBRD Commitment ($M)",
			Placeholder:    "-",
			FYLabelPrefix:  "FY",
			ZeroCommitment: ZeroCommitmentSkip,
		},
		Report: ReportConfig{
			FirstFY: "FY10",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Import: ImportConfig{
			PortfolioSheet:  "Portfolio",
			MetadataSheet:   "Metadata",
			CoBenefitsSheet: "Climate_cobenefits",
		},
	}
}
