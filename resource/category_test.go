package resource

import (
	"testing"

	"github.com/azure/cost-tracker/types"
	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name       string
		resourceID string
		want       types.Category
	}{
		{"compute", "/subscriptions/S/resourceGroups/rg/providers/Microsoft.Compute/virtualMachines/vm", types.CategoryCompute},
		{"storage", "/subscriptions/S/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/sa", types.CategoryStorage},
		{"network", "/subscriptions/S/resourceGroups/rg/providers/Microsoft.Network/publicIPAddresses/ip", types.CategoryNetworking},
		{"web", "/subscriptions/S/resourceGroups/rg/providers/Microsoft.Web/sites/app", types.CategoryWebApps},
		{"sql", "/subscriptions/S/resourceGroups/rg/providers/Microsoft.Sql/servers/db", types.CategoryDatabase},
		{"cognitive", "/subscriptions/S/resourceGroups/rg/providers/Microsoft.CognitiveServices/accounts/ai", types.CategoryAIServices},
		{"keyvault", "/subscriptions/S/resourceGroups/rg/providers/Microsoft.KeyVault/vaults/kv", types.CategoryOther},
		{"aks", "/subscriptions/S/resourceGroups/rg/providers/Microsoft.ContainerService/managedClusters/aks", types.CategoryOther},
		{"malformed", "not-a-valid-id", types.CategoryOther},
		{"empty", "", types.CategoryOther},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Categorize(tc.resourceID))
		})
	}
}

func TestCategorize_PriorityOrder(t *testing.T) {
	// Both "Storage" and "Compute" appear; Compute is checked first.
	id := "/subscriptions/S/resourceGroups/rg/providers/Microsoft.Compute/diskStorage/d1"
	assert.Equal(t, types.CategoryCompute, Categorize(id))

	// "Web" in the type wins over "Sql" because Web Apps is checked before Database.
	id = "/subscriptions/S/resourceGroups/rg/providers/Microsoft.Sql/WebhookServers/h1"
	assert.Equal(t, types.CategoryWebApps, Categorize(id))
}

func TestCategorize_AlwaysValid(t *testing.T) {
	inputs := []string{"", "/", "///", "a/b/c", webAppID, "/subscriptions/S/resourceGroups/rg/providers/p/t/n"}
	for _, input := range inputs {
		assert.Contains(t, Categories(), Categorize(input), input)
	}
}

func TestCategoryRules_Matches(t *testing.T) {
	rule := CategoryRule{Contains: "Network", Category: types.CategoryNetworking}
	assert.True(t, rule.Matches("Microsoft.Network/virtualNetworks"))
	assert.False(t, rule.Matches("Microsoft.Web/sites"))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []types.Category{
		types.CategoryCompute,
		types.CategoryStorage,
		types.CategoryNetworking,
		types.CategoryWebApps,
		types.CategoryDatabase,
		types.CategoryAIServices,
		types.CategoryOther,
	}, Categories())

	assert.Equal(t, 0, CategoryRank(types.CategoryCompute))
	assert.Equal(t, 6, CategoryRank(types.CategoryOther))
	assert.Equal(t, 7, CategoryRank(types.Category("Unknown")))
}
