package azure

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	lo "github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resourcegraph/armresourcegraph"

	"github.com/azure/cost-tracker/types"
)

const (
	DefaultQueryTimeout = 30 * time.Second

	subscriptionsQuery = `resourcecontainers
| where type =~ 'microsoft.resources/subscriptions'
| project subscriptionId, name, state = tostring(properties.state)
| order by name asc`
)

var (
	ErrNoSubscription       = errors.New("no enabled subscription found")
	ErrMultipleSubscription = errors.New("more than one enabled subscription found")
	ErrInvalidSubscription  = errors.New("invalid subscription ID")

	guidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

type IResourceGraphClient interface {
	Resources(ctx context.Context, query armresourcegraph.QueryRequest, options *armresourcegraph.ClientResourcesOptions) (armresourcegraph.ClientResourcesResponse, error)
}

// SubscriptionClient lists the subscriptions visible to the signed-in identity through Resource Graph.
type SubscriptionClient struct {
	GraphClient  IResourceGraphClient
	QueryTimeout time.Duration
	Logger       *logrus.Logger
}

func NewSubscriptionClient(logger *logrus.Logger) (*SubscriptionClient, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	graphClient, err := armresourcegraph.NewClient(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource graph client: %w", err)
	}

	return &SubscriptionClient{
		GraphClient:  graphClient,
		QueryTimeout: DefaultQueryTimeout,
		Logger:       logger,
	}, nil
}

// ValidateSubscriptionID rejects IDs that are not GUIDs and the empty GUID.
func ValidateSubscriptionID(subscriptionID string) error {
	if subscriptionID == "00000000-0000-0000-0000-000000000000" || !guidRegex.MatchString(subscriptionID) {
		return fmt.Errorf("%w: %q", ErrInvalidSubscription, subscriptionID)
	}
	return nil
}

func (graph *SubscriptionClient) GetSubscriptions(ctx context.Context) ([]types.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, graph.QueryTimeout)
	defer cancel()

	queryRequest := armresourcegraph.QueryRequest{
		Query: to.Ptr(subscriptionsQuery),
		Options: &armresourcegraph.QueryRequestOptions{
			AuthorizationScopeFilter: to.Ptr(armresourcegraph.AuthorizationScopeFilterAtScopeAndBelow),
			ResultFormat:             to.Ptr(armresourcegraph.ResultFormatObjectArray),
		},
	}

	graph.Logger.Info("Running Resource Graph query for subscriptions")
	graph.Logger.Tracef("Query: %s", subscriptionsQuery)

	res, err := graph.GraphClient.Resources(ctx, queryRequest, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}

	results, ok := res.QueryResponse.Data.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected resource graph result %T", res.QueryResponse.Data)
	}

	subscriptions := []types.Subscription{}
	for _, result := range results {
		row, ok := result.(map[string]any)
		if !ok {
			graph.Logger.Debugf("Skipping resource graph row %v", result)
			continue
		}

		subscriptionID, _ := row["subscriptionId"].(string)
		if subscriptionID == "" {
			continue
		}
		name, _ := row["name"].(string)
		state, _ := row["state"].(string)

		graph.Logger.Tracef("Adding Subscription: %s (%s)", subscriptionID, name)
		subscriptions = append(subscriptions, types.Subscription{
			ID:    subscriptionID,
			Name:  name,
			State: state,
		})
	}
	return subscriptions, nil
}

// DefaultSubscription returns the only enabled subscription, failing when there is none
// or the choice is ambiguous.
func (graph *SubscriptionClient) DefaultSubscription(ctx context.Context) (types.Subscription, error) {
	subscriptions, err := graph.GetSubscriptions(ctx)
	if err != nil {
		return types.Subscription{}, err
	}

	enabled := lo.Filter(subscriptions, func(subscription types.Subscription, _ int) bool {
		return subscription.IsEnabled()
	})

	switch len(enabled) {
	case 0:
		return types.Subscription{}, ErrNoSubscription
	case 1:
		graph.Logger.Infof("Using subscription %s (%s)", enabled[0].ID, enabled[0].Name)
		return enabled[0], nil
	}

	ids := lo.Map(enabled, func(subscription types.Subscription, _ int) string {
		return subscription.ID
	})
	return types.Subscription{}, fmt.Errorf("%w (%s), pass --subscriptionID", ErrMultipleSubscription, strings.Join(ids, ", "))
}
