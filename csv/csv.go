package csv

import (
	csvwriter "encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/azure/cost-tracker/ledger"
	"github.com/azure/cost-tracker/resource"
	"github.com/azure/cost-tracker/types"
)

type ICostCsvClient interface {
	Export(current *ledger.Ledger, top int, writer io.Writer) error
	ExportCategories(current *ledger.Ledger, writer io.Writer) error
}

type CostCsvClient struct {
	Logger *logrus.Logger
}

type CostCsv struct {
	Header []string
	Rows   []*CostCsvRow
}

func NewCostCsvClient(logger *logrus.Logger) *CostCsvClient {
	return &CostCsvClient{
		Logger: logger,
	}
}

func (csv *CostCsv) AddRow(row *CostCsvRow) {
	csv.Rows = append(csv.Rows, row)
}

type CostCsvRow struct {
	Rank          int
	ResourceID    string
	ResourceName  string
	ResourceType  string
	ResourceGroup string
	Category      types.Category
	Cost          string
	Share         string
}

// Export writes the top entries of the ledger, or all of them when top is not positive.
func (csvClient *CostCsvClient) Export(current *ledger.Ledger, top int, writer io.Writer) error {
	if top <= 0 {
		top = current.Len()
	}

	costCsv := &CostCsv{Header: []string{"Rank", "Resource ID", "Resource Name", "Resource Type", "Resource Group", "Category", "Cost (USD)", "Share (%)"}}
	for i, entry := range current.Top(top) {
		resourceName := resource.DisplayName(entry.ResourceID)
		resourceGroup := ""
		if parsed, ok := resource.Parse(entry.ResourceID); ok {
			resourceName = parsed.ResourceName
			resourceGroup = parsed.ResourceGroup
		}

		costCsv.AddRow(&CostCsvRow{
			Rank:          i + 1,
			ResourceID:    entry.ResourceID,
			ResourceName:  resourceName,
			ResourceType:  resource.TypeName(entry.ResourceID),
			ResourceGroup: resourceGroup,
			Category:      resource.Categorize(entry.ResourceID),
			Cost:          entry.Amount.StringFixed(2),
			Share:         current.Share(entry.Amount).StringFixed(1),
		})
	}

	csvData := [][]string{costCsv.Header}
	for _, row := range costCsv.Rows {
		csvData = append(csvData, []string{
			strconv.Itoa(row.Rank),
			row.ResourceID,
			row.ResourceName,
			row.ResourceType,
			row.ResourceGroup,
			string(row.Category),
			row.Cost,
			row.Share,
		})
	}

	if err := csvClient.writeCsv(csvData, writer); err != nil {
		return err
	}
	csvClient.Logger.Infof("Wrote %d cost rows", len(costCsv.Rows))
	return nil
}

func (csvClient *CostCsvClient) ExportCategories(current *ledger.Ledger, writer io.Writer) error {
	csvData := [][]string{{"Category", "Total Cost (USD)", "Share (%)", "Resources", "Avg Cost (USD)"}}
	for _, summary := range current.ByCategory() {
		csvData = append(csvData, []string{
			string(summary.Category),
			summary.Total.StringFixed(2),
			current.Share(summary.Total).StringFixed(1),
			strconv.Itoa(summary.Count),
			summary.Average.StringFixed(2),
		})
	}

	if err := csvClient.writeCsv(csvData, writer); err != nil {
		return err
	}
	csvClient.Logger.Infof("Wrote %d category rows", len(csvData)-1)
	return nil
}

func (csvClient *CostCsvClient) writeCsv(csvData [][]string, writer io.Writer) error {
	csvWriter := csvwriter.NewWriter(writer)
	if err := csvWriter.WriteAll(csvData); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
