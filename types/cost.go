package types

import "github.com/shopspring/decimal"

type CostEntry struct {
	Amount     decimal.Decimal
	ResourceID string
}

type Category string

const (
	CategoryCompute    Category = "Compute"
	CategoryStorage    Category = "Storage"
	CategoryNetworking Category = "Networking"
	CategoryWebApps    Category = "Web Apps"
	CategoryDatabase   Category = "Database"
	CategoryAIServices Category = "AI Services"
	CategoryOther      Category = "Other"
)

type CategorySummary struct {
	Category Category
	Total    decimal.Decimal
	Count    int
	Average  decimal.Decimal
}
