package azure

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resourcegraph/armresourcegraph"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResourceGraphClient struct {
	Data   any
	Err    error
	Called bool
	Query  armresourcegraph.QueryRequest
}

func (m *mockResourceGraphClient) Resources(ctx context.Context, query armresourcegraph.QueryRequest, options *armresourcegraph.ClientResourcesOptions) (armresourcegraph.ClientResourcesResponse, error) {
	m.Called = true
	m.Query = query
	if m.Err != nil {
		return armresourcegraph.ClientResourcesResponse{}, m.Err
	}
	return armresourcegraph.ClientResourcesResponse{
		QueryResponse: armresourcegraph.QueryResponse{Data: m.Data},
	}, nil
}

func newTestSubscriptionClient(graphClient *mockResourceGraphClient) *SubscriptionClient {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &SubscriptionClient{
		GraphClient:  graphClient,
		QueryTimeout: DefaultQueryTimeout,
		Logger:       logger,
	}
}

func subscriptionRow(id string, name string, state string) map[string]any {
	return map[string]any{"subscriptionId": id, "name": name, "state": state}
}

func TestSubscriptionClient_GetSubscriptions(t *testing.T) {
	graphClient := &mockResourceGraphClient{Data: []any{
		subscriptionRow("11111111-1111-1111-1111-111111111111", "dev", "Enabled"),
		subscriptionRow("22222222-2222-2222-2222-222222222222", "old", "Disabled"),
		map[string]any{"name": "missing id"},
		"not a row",
	}}

	subscriptions, err := newTestSubscriptionClient(graphClient).GetSubscriptions(context.Background())

	require.NoError(t, err)
	assert.True(t, graphClient.Called)
	assert.Contains(t, *graphClient.Query.Query, "microsoft.resources/subscriptions")
	assert.Equal(t, armresourcegraph.ResultFormatObjectArray, *graphClient.Query.Options.ResultFormat)
	require.Len(t, subscriptions, 2)
	assert.Equal(t, "dev", subscriptions[0].Name)
	assert.False(t, subscriptions[1].IsEnabled())
}

func TestSubscriptionClient_GetSubscriptions_Error(t *testing.T) {
	graphClient := &mockResourceGraphClient{Err: errors.New("forbidden")}

	_, err := newTestSubscriptionClient(graphClient).GetSubscriptions(context.Background())

	assert.ErrorContains(t, err, "failed to query subscriptions: forbidden")
}

func TestSubscriptionClient_GetSubscriptions_UnexpectedData(t *testing.T) {
	graphClient := &mockResourceGraphClient{Data: map[string]any{"columns": []any{}}}

	_, err := newTestSubscriptionClient(graphClient).GetSubscriptions(context.Background())

	assert.ErrorContains(t, err, "unexpected resource graph result")
}

func TestSubscriptionClient_DefaultSubscription(t *testing.T) {
	graphClient := &mockResourceGraphClient{Data: []any{
		subscriptionRow("11111111-1111-1111-1111-111111111111", "dev", "Enabled"),
		subscriptionRow("22222222-2222-2222-2222-222222222222", "old", "Disabled"),
	}}

	subscription, err := newTestSubscriptionClient(graphClient).DefaultSubscription(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", subscription.ID)
}

func TestSubscriptionClient_DefaultSubscription_None(t *testing.T) {
	graphClient := &mockResourceGraphClient{Data: []any{
		subscriptionRow("22222222-2222-2222-2222-222222222222", "old", "Disabled"),
	}}

	_, err := newTestSubscriptionClient(graphClient).DefaultSubscription(context.Background())

	assert.ErrorIs(t, err, ErrNoSubscription)
}

func TestSubscriptionClient_DefaultSubscription_Ambiguous(t *testing.T) {
	graphClient := &mockResourceGraphClient{Data: []any{
		subscriptionRow("11111111-1111-1111-1111-111111111111", "dev", "Enabled"),
		subscriptionRow("33333333-3333-3333-3333-333333333333", "prod", "Enabled"),
	}}

	_, err := newTestSubscriptionClient(graphClient).DefaultSubscription(context.Background())

	assert.ErrorIs(t, err, ErrMultipleSubscription)
	assert.ErrorContains(t, err, "33333333-3333-3333-3333-333333333333")
}

func TestValidateSubscriptionID(t *testing.T) {
	assert.NoError(t, ValidateSubscriptionID("12345678-1234-1234-1234-123456789012"))
	assert.ErrorIs(t, ValidateSubscriptionID("00000000-0000-0000-0000-000000000000"), ErrInvalidSubscription)
	assert.ErrorIs(t, ValidateSubscriptionID("my-subscription"), ErrInvalidSubscription)
	assert.ErrorIs(t, ValidateSubscriptionID(""), ErrInvalidSubscription)
}
