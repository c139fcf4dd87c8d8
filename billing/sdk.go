package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"

	"github.com/azure/cost-tracker/types"
)

type IUsageClient interface {
	Usage(ctx context.Context, scope string, parameters armcostmanagement.QueryDefinition, options *armcostmanagement.QueryClientUsageOptions) (armcostmanagement.QueryClientUsageResponse, error)
}

// AzureSdkCostClient runs the same month-to-date query as the CLI client through the
// Cost Management REST API, authenticating with DefaultAzureCredential.
type AzureSdkCostClient struct {
	SubscriptionID string
	QueryTimeout   time.Duration
	UsageClient    IUsageClient
	Logger         *logrus.Logger
}

func NewAzureSdkCostClient(subscriptionID string, logger *logrus.Logger) (*AzureSdkCostClient, error) {
	if subscriptionID == "" {
		return nil, errors.New("a subscription ID is required for the sdk cost source")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	usageClient, err := armcostmanagement.NewQueryClient(credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cost management client: %w", err)
	}

	return &AzureSdkCostClient{
		SubscriptionID: subscriptionID,
		QueryTimeout:   DefaultQueryTimeout,
		UsageClient:    usageClient,
		Logger:         logger,
	}, nil
}

func (sdkClient *AzureSdkCostClient) Name() string {
	return "Azure Cost Management API"
}

func (sdkClient *AzureSdkCostClient) GetCosts(ctx context.Context) ([]types.CostEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, sdkClient.QueryTimeout)
	defer cancel()

	scope := fmt.Sprintf("/subscriptions/%s", sdkClient.SubscriptionID)
	sdkClient.Logger.Debugf("Querying cost management for scope %s", scope)

	resp, err := sdkClient.UsageClient.Usage(ctx, scope, NewQueryDefinition(types.NewResourceCostQuery()), nil)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("failed to query costs: %w", err)
	}

	if resp.Properties == nil || len(resp.Properties.Rows) == 0 {
		return nil, ErrNoCostData
	}

	entries, err := EntriesFromRows(resp.Properties.Rows)
	if err != nil {
		return nil, err
	}
	sdkClient.Logger.Infof("Cost query returned %d rows", len(entries))
	return entries, nil
}

// NewQueryDefinition translates the dataset descriptor into the SDK request. Granularity
// "None" is expressed by leaving granularity unset.
func NewQueryDefinition(query types.CostQuery) armcostmanagement.QueryDefinition {
	aggregation := map[string]*armcostmanagement.QueryAggregation{}
	for key, value := range query.Aggregation {
		aggregation[key] = &armcostmanagement.QueryAggregation{
			Name:     to.Ptr(value.Name),
			Function: to.Ptr(armcostmanagement.FunctionType(value.Function)),
		}
	}

	grouping := []*armcostmanagement.QueryGrouping{}
	for _, value := range query.Grouping {
		grouping = append(grouping, &armcostmanagement.QueryGrouping{
			Type: to.Ptr(armcostmanagement.QueryColumnType(value.Type)),
			Name: to.Ptr(value.Name),
		})
	}

	return armcostmanagement.QueryDefinition{
		Type:      to.Ptr(armcostmanagement.ExportTypeActualCost),
		Timeframe: to.Ptr(armcostmanagement.TimeframeTypeMonthToDate),
		Dataset: &armcostmanagement.QueryDataset{
			Aggregation: aggregation,
			Grouping:    grouping,
		},
	}
}
