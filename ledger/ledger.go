package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/azure/cost-tracker/resource"
	"github.com/azure/cost-tracker/types"
)

// Ledger is the sorted set of positive cost entries for the current billing period.
// It is never modified after Build; a refresh builds a new Ledger.
type Ledger struct {
	entries []types.CostEntry
	total   decimal.Decimal
}

// Build drops entries that are not strictly positive and orders the rest by amount
// descending, keeping the source order between equal amounts.
func Build(entries []types.CostEntry) *Ledger {
	kept := make([]types.CostEntry, 0, len(entries))
	total := decimal.Zero
	for _, entry := range entries {
		if !entry.Amount.IsPositive() {
			continue
		}
		kept = append(kept, entry)
		total = total.Add(entry.Amount)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Amount.GreaterThan(kept[j].Amount)
	})

	return &Ledger{
		entries: kept,
		total:   total,
	}
}

func (ledger *Ledger) Len() int {
	if ledger == nil {
		return 0
	}
	return len(ledger.entries)
}

func (ledger *Ledger) IsEmpty() bool {
	return ledger.Len() == 0
}

// Entries returns a copy of every entry in ledger order.
func (ledger *Ledger) Entries() []types.CostEntry {
	return ledger.Top(ledger.Len())
}

// Top returns a copy of the n most expensive entries.
func (ledger *Ledger) Top(n int) []types.CostEntry {
	if n <= 0 || ledger.IsEmpty() {
		return []types.CostEntry{}
	}
	if n > len(ledger.entries) {
		n = len(ledger.entries)
	}

	top := make([]types.CostEntry, n)
	copy(top, ledger.entries[:n])
	return top
}

// Overflow is the number of entries Top(n) leaves out.
func (ledger *Ledger) Overflow(n int) int {
	if n < 0 {
		n = 0
	}
	if overflow := ledger.Len() - n; overflow > 0 {
		return overflow
	}
	return 0
}

// Entry returns the entry at a 1-based rank.
func (ledger *Ledger) Entry(rank int) (types.CostEntry, bool) {
	if rank < 1 || rank > ledger.Len() {
		return types.CostEntry{}, false
	}
	return ledger.entries[rank-1], true
}

func (ledger *Ledger) Total() decimal.Decimal {
	if ledger == nil {
		return decimal.Zero
	}
	return ledger.total
}

// Share is the percentage of the ledger total represented by amount.
func (ledger *Ledger) Share(amount decimal.Decimal) decimal.Decimal {
	total := ledger.Total()
	if total.IsZero() {
		return decimal.Zero
	}
	return amount.Div(total).Mul(decimal.NewFromInt(100))
}

// ByCategory groups the entries by resource category, most expensive category first.
func (ledger *Ledger) ByCategory() []types.CategorySummary {
	groups := map[types.Category]*types.CategorySummary{}

	for _, entry := range ledger.Entries() {
		category := resource.Categorize(entry.ResourceID)
		summary, exists := groups[category]
		if !exists {
			summary = &types.CategorySummary{Category: category, Total: decimal.Zero}
			groups[category] = summary
		}
		summary.Total = summary.Total.Add(entry.Amount)
		summary.Count++
	}

	summaries := make([]types.CategorySummary, 0, len(groups))
	for _, summary := range groups {
		summary.Average = decimal.Zero
		if summary.Count > 0 {
			summary.Average = summary.Total.Div(decimal.NewFromInt(int64(summary.Count)))
		}
		summaries = append(summaries, *summary)
	}

	sort.Sort(ByTotalAndCategory(summaries))
	return summaries
}

type ByTotalAndCategory []types.CategorySummary

func (o ByTotalAndCategory) Len() int      { return len(o) }
func (o ByTotalAndCategory) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o ByTotalAndCategory) Less(i, j int) bool {
	if !o[i].Total.Equal(o[j].Total) {
		return o[i].Total.GreaterThan(o[j].Total)
	}
	return resource.CategoryRank(o[i].Category) < resource.CategoryRank(o[j].Category)
}
