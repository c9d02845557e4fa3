package catddo

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"
)

// FormatSummaryTable renders the source summary as an aligned text table.
func FormatSummaryTable(t SummaryTable) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "\tDisbursed\tUndisbursed\tPipeline\t")
	for _, r := range t.Rows {
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t\n", r.Label, r.Disbursed, r.Undisbursed, r.Pipeline)
	}
	w.Flush()
	return b.String()
}

func ApprovalSentence(f Facts) string {
	return fmt.Sprintf("As of %s, %s, %d Cat DDOs have been approved in %d countries, with %d of these operations having already been closed. There are additional %d Cat DDOs currently in the pipeline.",
		f.UpdateMonth, f.UpdateYear, f.ApprovedCount, f.Countries, f.ClosedCount, f.PipelineCount)
}

func DisbursedSentence(f Facts) string {
	return fmt.Sprintf("Cat DDOs have disbursed a total of US$ %.1f billion", Round1(f.Disbursed/1e9))
}

// SourceShareSentence compares IBRD and IDA disbursements; the larger
// source leads the sentence.
func SourceShareSentence(f Facts) (string, error) {
	total := f.DisbursedIBRD + f.DisbursedIDA
	if total == 0 {
		return "", NewDivisionByZeroError("no disbursement by IBRD or IDA operations")
	}
	ibrd := Round1(f.DisbursedIBRD / total * 100)
	ida := Round1(f.DisbursedIDA / total * 100)
	const tail = " There has been a notable increase in the use of Cat DDOs to support IDA countries since 2018."
	if f.DisbursedIBRD > f.DisbursedIDA {
		return fmt.Sprintf("IBRD countries account for larger disbursed amounts (%.1f%% against %.1f%% for IDA countries).", ibrd, ida) + tail, nil
	}
	return fmt.Sprintf("IDA countries account for larger disbursed amounts (%.1f%% against %.1f%% for IBRD countries).", ida, ibrd) + tail, nil
}

func UndisbursedSentence(f Facts) string {
	return fmt.Sprintf("There is an undisbursed balance of US$ %.1f billion available for responding to catastrophes including public health-related emergencies.",
		Round1(f.Undisbursed/1e9))
}

// RegionSentence names the two regions holding the largest undisbursed
// balance; regions is the ranking from UndisbursedByRegion.
func RegionSentence(regions []RegionAmount) (string, error) {
	top, err := TopRegions(regions, 2)
	if err != nil {
		return "", err
	}
	first, second := top[0], top[1]
	return fmt.Sprintf("Of the undisbursed amount, US$ %.1f million (%.1f%%) is allocated to %s and US$ %.1f million (%.1f%%) to %s.",
		Round1(first.Amount/1e6), Round1(first.Share), first.Region,
		Round1(second.Amount/1e6), Round1(second.Share), second.Region), nil
}

func PipelineSentence(f Facts) string {
	return fmt.Sprintf("%d Cat DDOs totaling US$ %.1f million are under preparation in IDA countries, compared to %d operations amounting to US$ %.1f million for IBRD countries.",
		f.PipelineIDACount, Round1(f.PipelineIDACommitment/1e6), f.PipelineIBRDCount, Round1(f.PipelineIBRDCommitment/1e6))
}

func MixedSentence(f Facts) string {
	return fmt.Sprintf("Of the US$ %.1f million committed to DPOs that combine upfront budget support with the Cat DDO instrument, US$ %.1f million has been specifically allocated to the Cat DDO.",
		Round1(f.MixedCommitmentAll/1e6), Round1(f.MixedCommitmentCatDDO/1e6))
}

// Sentences renders the seven portfolio sentences in dashboard order.
func Sentences(f Facts, regions []RegionAmount) ([]string, error) {
	share, err := SourceShareSentence(f)
	if err != nil {
		return nil, err
	}
	region, err := RegionSentence(regions)
	if err != nil {
		return nil, err
	}
	return []string{
		ApprovalSentence(f),
		DisbursedSentence(f),
		share,
		UndisbursedSentence(f),
		region,
		PipelineSentence(f),
		MixedSentence(f),
	}, nil
}

// CoBenefitSentences renders the climate co-benefit sentences; percentages are whole numbers.
func CoBenefitSentences(m CoBenefitMeans) []string {
	return []string{
		fmt.Sprintf("On average, Cat DDO financing achieves %.0f%% climate co-benefits, driven predominantly by adaptation.", math.Round(m.All)),
		fmt.Sprintf("When implemented as standalone contingent-financing operations, Cat DDOs are significantly more effective, achieving an average of %.0f%% climate co-benefits.", math.Round(m.Standalone)),
		fmt.Sprintf("In comparison, operations attain only %.0f%% when integrating a Cat DDO into a DPO (“mixed DPO”) that combines upfront budget support with catastrophe-contingent financing.", math.Round(m.Mixed)),
	}
}
