package resource

import (
	"strings"

	"github.com/azure/cost-tracker/types"
)

type CategoryRule struct {
	Contains string
	Category types.Category
}

// CategoryRules is evaluated in order against the full type, first match wins.
var CategoryRules = []CategoryRule{
	{Contains: "Compute", Category: types.CategoryCompute},
	{Contains: "Storage", Category: types.CategoryStorage},
	{Contains: "Network", Category: types.CategoryNetworking},
	{Contains: "Web", Category: types.CategoryWebApps},
	{Contains: "Sql", Category: types.CategoryDatabase},
	{Contains: "CognitiveServices", Category: types.CategoryAIServices},
}

func (rule CategoryRule) Matches(fullType string) bool {
	return strings.Contains(fullType, rule.Contains)
}

// Categorize maps any string to a category. Unparseable IDs are Other.
func Categorize(resourceID string) types.Category {
	parsed, ok := Parse(resourceID)
	if !ok {
		return types.CategoryOther
	}

	fullType := parsed.FullType()
	for _, rule := range CategoryRules {
		if rule.Matches(fullType) {
			return rule.Category
		}
	}
	return types.CategoryOther
}

// Categories lists every label in priority order, Other last.
func Categories() []types.Category {
	categories := make([]types.Category, 0, len(CategoryRules)+1)
	for _, rule := range CategoryRules {
		categories = append(categories, rule.Category)
	}
	return append(categories, types.CategoryOther)
}

// CategoryRank is the position of a category in the priority order.
func CategoryRank(category types.Category) int {
	for i, candidate := range Categories() {
		if candidate == category {
			return i
		}
	}
	return len(CategoryRules) + 1
}
