package tracker

import (
	"github.com/azure/cost-tracker/ledger"
	"github.com/azure/cost-tracker/resource"
	"github.com/azure/cost-tracker/types"
)

// BuildReport summarizes the top entries of a ledger, or its categories when byCategory is set.
// Shares are rounded to one decimal place and amounts to cents.
func BuildReport(current *ledger.Ledger, sourceName string, top int, byCategory bool) types.CostReport {
	if top <= 0 {
		top = current.Len()
	}

	report := types.CostReport{
		Source:    sourceName,
		Total:     current.Total().Round(2),
		Resources: current.Len(),
	}

	if byCategory {
		for _, summary := range current.ByCategory() {
			report.Categories = append(report.Categories, types.CategoryReportEntry{
				Category:  summary.Category,
				Total:     summary.Total.Round(2),
				Share:     current.Share(summary.Total).Round(1),
				Resources: summary.Count,
				Average:   summary.Average.Round(2),
			})
		}
		return report
	}

	report.Overflow = current.Overflow(top)
	for i, entry := range current.Top(top) {
		reportEntry := types.CostReportEntry{
			Rank:         i + 1,
			ResourceID:   entry.ResourceID,
			DisplayName:  resource.DisplayName(entry.ResourceID),
			ResourceType: resource.TypeName(entry.ResourceID),
			Category:     resource.Categorize(entry.ResourceID),
			Cost:         entry.Amount.Round(2),
			Share:        current.Share(entry.Amount).Round(1),
		}
		if parsed, ok := resource.Parse(entry.ResourceID); ok {
			reportEntry.ResourceGroup = parsed.ResourceGroup
		}
		if url, ok := resource.PortalURL(entry.ResourceID); ok {
			reportEntry.PortalURL = url
		}
		report.Entries = append(report.Entries, reportEntry)
	}
	return report
}
