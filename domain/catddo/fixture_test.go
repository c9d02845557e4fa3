package catddo

import (
	"encoding/csv"
	"strings"
	"testing"

	"catddo-stats/domain/config"

	"github.com/stretchr/testify/require"
)

// Same content as testdata/ at the repository root.
const portfolioCSV = `P#,Country,Region,Fiscal Year,Status,Source,Standalone/Mixed,Disbursements - Cat DDO Cum.,Disbursements - Cat DDO Cum. (IBRD),Disbursements - Cat DDO Cum. (IDA),CAT DDO Undisbursed,CAT DDO Undisbursed (IBRD),CAT DDO Undisbursed (IDA),Commitment (Cat DDO only),Commitment (All = DPO + Cat DDO),FY10 Cat DDO Disb.,FY11 Cat DDO Disb.,FY12 Cat DDO Disb.,FY13 Cat DDO Disb.
P1,Colombia,LCR,FY11,Closed,IBRD,Standalone,150000000,150000000,0,0,0,0,150000000,150000000,0,100000000,50000000,0
P2,Philippines,EAP,FY12,Active,IBRD,Mixed,200000000,200000000,0,300000000,300000000,0,500000000,1000000000,0,0,200000000,0
P3,Kenya,AFR,FY12,Active,IDA,Standalone,150000000,0,150000000,100000000,0,100000000,250000000,250000000,0,0,150000000,0
P4,Nepal,SAR,FY13,Pipeline,IDA,Standalone,,,,,,,30000000,30000000,,,,
P5,Peru,LCR,FY11,Dropped,IBRD,Standalone,n/a,n/a,n/a,n/a,n/a,n/a,n/a,n/a,n/a,n/a,n/a,n/a
`

const cobenefitsCSV = `Project Assessed,Project ID,Country,FY,TN2: Net IDA/IBRD Adaptation ($M) ,TO6: Total IDA/IBRD Commitment ($M),TN3: Net IDA/IBRD Mitigation ($M) 
Assessed,P1,Colombia,FY11,60,150,-
Assessed,P2,Philippines,FY12,100,"1,000",50
Assessed,P3,Kenya,FY12,150,250,25
Not Assessed,P4,Nepal,FY13,-,30,-
Assessed,P999,Chile,FY12,10,100,10
`

var fixtureMeta = Metadata{UpdateMonth: "June", UpdateYear: "2024", LastFY: "FY12"}

func mustTable(t *testing.T, name, text string) *Table {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	require.NoError(t, err)
	tbl, err := NewTable(name, records[0], records[1:])
	require.NoError(t, err)
	return tbl
}

func fixturePortfolio(t *testing.T) *Portfolio {
	t.Helper()
	p, err := PreparePortfolio(mustTable(t, "portfolio", portfolioCSV), fixtureMeta, config.Default().Portfolio)
	require.NoError(t, err)
	return p
}

func fixtureCoBenefits(t *testing.T, p *Portfolio) []CoBenefit {
	t.Helper()
	cbs, err := PrepareCoBenefits(mustTable(t, "cobenefits", cobenefitsCSV), p, config.Default().CoBenefits)
	require.NoError(t, err)
	return cbs
}
