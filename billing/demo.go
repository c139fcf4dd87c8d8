package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/azure/cost-tracker/types"
)

const demoSubscription = "/subscriptions/12345678-1234-1234-1234-123456789012"

var demoCosts = []struct {
	amount     string
	resourceID string
}{
	{"125.50", demoSubscription + "/resourceGroups/rg-webapp/providers/Microsoft.Web/sites/mywebapp"},
	{"89.20", demoSubscription + "/resourceGroups/rg-storage/providers/Microsoft.Storage/storageAccounts/mystorageaccount"},
	{"45.75", demoSubscription + "/resourceGroups/rg-vm/providers/Microsoft.Compute/virtualMachines/myvm"},
	{"32.10", demoSubscription + "/resourceGroups/rg-db/providers/Microsoft.Sql/servers/mysqlserver"},
	{"18.90", demoSubscription + "/resourceGroups/rg-network/providers/Microsoft.Network/publicIPAddresses/mypublicip"},
	{"12.45", demoSubscription + "/resourceGroups/rg-keyvault/providers/Microsoft.KeyVault/vaults/mykeyvault"},
	{"8.75", demoSubscription + "/resourceGroups/rg-cognitive/providers/Microsoft.CognitiveServices/accounts/mycognitive"},
	{"6.20", demoSubscription + "/resourceGroups/rg-container/providers/Microsoft.ContainerService/managedClusters/myaks"},
}

// DemoCostClient serves a fixed sample dataset for trying the tool without Azure access.
type DemoCostClient struct{}

func NewDemoCostClient() *DemoCostClient {
	return &DemoCostClient{}
}

func (DemoCostClient) Name() string {
	return "demo data"
}

func (DemoCostClient) GetCosts(ctx context.Context) ([]types.CostEntry, error) {
	entries := make([]types.CostEntry, 0, len(demoCosts))
	for _, demo := range demoCosts {
		entries = append(entries, types.CostEntry{
			Amount:     decimal.RequireFromString(demo.amount),
			ResourceID: demo.resourceID,
		})
	}
	return entries, nil
}
