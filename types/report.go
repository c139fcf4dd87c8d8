package types

import "github.com/shopspring/decimal"

// CostReport is the document written by the report command in JSON format.
type CostReport struct {
	Source     string                `json:"source"`
	Total      decimal.Decimal       `json:"total"`
	Resources  int                   `json:"resources"`
	Overflow   int                   `json:"overflow"`
	Entries    []CostReportEntry     `json:"entries,omitempty"`
	Categories []CategoryReportEntry `json:"categories,omitempty"`
}

type CostReportEntry struct {
	Rank          int             `json:"rank"`
	ResourceID    string          `json:"resourceId"`
	DisplayName   string          `json:"displayName"`
	ResourceType  string          `json:"resourceType"`
	ResourceGroup string          `json:"resourceGroup,omitempty"`
	Category      Category        `json:"category"`
	Cost          decimal.Decimal `json:"cost"`
	Share         decimal.Decimal `json:"share"`
	PortalURL     string          `json:"portalUrl,omitempty"`
}

type CategoryReportEntry struct {
	Category  Category        `json:"category"`
	Total     decimal.Decimal `json:"total"`
	Share     decimal.Decimal `json:"share"`
	Resources int             `json:"resources"`
	Average   decimal.Decimal `json:"average"`
}
