package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/azure/cost-tracker/types"
)

type ICostClient interface {
	GetCosts(ctx context.Context) ([]types.CostEntry, error)
	Name() string
}

var (
	ErrCLINotFound   = errors.New("azure CLI not found")
	ErrNotLoggedIn   = errors.New("not logged into Azure CLI, run: az login")
	ErrTimeout       = errors.New("azure cost request timed out")
	ErrNoCostData    = errors.New("no cost data found for this month")
	ErrMalformedData = errors.New("failed to parse cost data")
)

const unknownResourceID = "Unknown"

// EntriesFromRows converts query rows of the form [cost, resourceId, ...] into entries.
// Rows with fewer than two columns are skipped; an empty cost counts as zero and an
// empty resource ID becomes "Unknown".
func EntriesFromRows(rows [][]any) ([]types.CostEntry, error) {
	entries := []types.CostEntry{}
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}

		amount, err := parseAmount(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedData, i, err)
		}

		resourceID := unknownResourceID
		if row[1] != nil {
			if value := fmt.Sprint(row[1]); value != "" {
				resourceID = value
			}
		}

		entries = append(entries, types.CostEntry{
			Amount:     amount,
			ResourceID: resourceID,
		})
	}
	return entries, nil
}

func parseAmount(value any) (decimal.Decimal, error) {
	switch cost := value.(type) {
	case nil:
		return decimal.Zero, nil
	case json.Number:
		return decimal.NewFromString(cost.String())
	case float64:
		return decimal.NewFromFloat(cost), nil
	case float32:
		return decimal.NewFromFloat32(cost), nil
	case int:
		return decimal.NewFromInt(int64(cost)), nil
	case int64:
		return decimal.NewFromInt(cost), nil
	case string:
		if cost == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(cost)
	default:
		return decimal.Zero, fmt.Errorf("unsupported cost value %v (%T)", value, value)
	}
}
