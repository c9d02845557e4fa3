package catddo

import "strings"

// Report gathers every aggregate the dashboard shows.
type Report struct {
	Portfolio *Portfolio

	Disbursements  DisbursementSeries
	ByYearRegion   CrossTab
	ByRegionStatus CrossTab
	ByYearType     CrossTab
	Summary        SummaryTable
	Regions        []RegionAmount
	Facts          Facts
	Sentences      []string

	CoBenefits         []CoBenefit
	CoBenefitMeans     CoBenefitMeans
	CoBenefitSentences []string
}

// BuildReport runs every aggregation once. firstFY is the earliest year on
// the approval cross-tabs.
func BuildReport(p *Portfolio, cbs []CoBenefit, firstFY int) (*Report, error) {
	a := NewAggregator(p)
	r := &Report{
		Portfolio:      p,
		Disbursements:  a.DisbursementsByYear(),
		ByYearRegion:   a.ApprovalsByYearAndRegion(firstFY),
		ByRegionStatus: a.ApprovalsByRegionAndStatus(),
		ByYearType:     a.ApprovalsByYearAndType(firstFY),
		Summary:        a.SourceSummary(),
		Facts:          a.Facts(),
		CoBenefits:     cbs,
	}
	var err error
	if r.Regions, err = a.UndisbursedByRegion(); err != nil {
		return nil, err
	}
	if r.Sentences, err = Sentences(r.Facts, r.Regions); err != nil {
		return nil, err
	}
	if r.CoBenefitMeans, err = CoBenefitAverages(cbs); err != nil {
		return nil, err
	}
	r.CoBenefitSentences = CoBenefitSentences(r.CoBenefitMeans)
	return r, nil
}

// Text is the printed part of the dashboard: summary table then sentences, one per line.
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString(FormatSummaryTable(r.Summary))
	for _, s := range r.Sentences {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	for _, s := range r.CoBenefitSentences {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return b.String()
}
