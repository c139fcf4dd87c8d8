package types

// CostQuery is the dataset descriptor passed to the cost management query.
type CostQuery struct {
	Granularity string                          `json:"granularity"`
	Aggregation map[string]CostQueryAggregation `json:"aggregation"`
	Grouping    []CostQueryGrouping             `json:"grouping"`
}

type CostQueryAggregation struct {
	Name     string `json:"name"`
	Function string `json:"function"`
}

type CostQueryGrouping struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// CostQueryResponse is the subset of the query response that carries the rows.
type CostQueryResponse struct {
	Properties struct {
		Columns []CostQueryColumn `json:"columns"`
		Rows    [][]any           `json:"rows"`
	} `json:"properties"`
}

type CostQueryColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func NewResourceCostQuery() CostQuery {
	return CostQuery{
		Granularity: "None",
		Aggregation: map[string]CostQueryAggregation{
			"totalCost": {Name: "PreTaxCost", Function: "Sum"},
		},
		Grouping: []CostQueryGrouping{
			{Type: "Dimension", Name: "ResourceId"},
		},
	}
}
