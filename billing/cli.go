package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	jsonclient "github.com/azure/cost-tracker/json"
	"github.com/azure/cost-tracker/types"
)

const (
	DefaultLoginTimeout = 10 * time.Second
	DefaultQueryTimeout = 60 * time.Second
)

type ICommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

type ExecCommandRunner struct{}

func (ExecCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

type AzureCliCostClient struct {
	Executable     string
	SubscriptionID string
	LoginTimeout   time.Duration
	QueryTimeout   time.Duration
	Runner         ICommandRunner
	Logger         *logrus.Logger
}

func NewAzureCliCostClient(subscriptionID string, logger *logrus.Logger) *AzureCliCostClient {
	return &AzureCliCostClient{
		Executable:     "az",
		SubscriptionID: subscriptionID,
		LoginTimeout:   DefaultLoginTimeout,
		QueryTimeout:   DefaultQueryTimeout,
		Runner:         ExecCommandRunner{},
		Logger:         logger,
	}
}

type azureAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (cliClient *AzureCliCostClient) Name() string {
	return "Azure CLI"
}

func (cliClient *AzureCliCostClient) GetCosts(ctx context.Context) ([]types.CostEntry, error) {
	account, err := cliClient.getAccount(ctx)
	if err != nil {
		return nil, err
	}

	subscriptionID := cliClient.SubscriptionID
	if subscriptionID == "" {
		subscriptionID = account.ID
	}
	cliClient.Logger.Debugf("Subscription ID: %s (%s)", subscriptionID, account.Name)

	dataset, err := json.Marshal(types.NewResourceCostQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to build cost query: %w", err)
	}

	args := []string{
		"costmanagement", "query",
		"--type", "ActualCost",
		"--timeframe", "MonthToDate",
		"--dataset", string(dataset),
	}
	if subscriptionID != "" {
		args = append(args, "--scope", "subscriptions/"+subscriptionID)
	}

	stdout, err := cliClient.run(ctx, cliClient.QueryTimeout, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch costs: %w", err)
	}

	var response types.CostQueryResponse
	if err := jsonclient.Decode(stdout, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	if len(response.Properties.Rows) == 0 {
		return nil, ErrNoCostData
	}

	entries, err := EntriesFromRows(response.Properties.Rows)
	if err != nil {
		return nil, err
	}
	cliClient.Logger.Infof("Cost query returned %d rows", len(entries))
	return entries, nil
}

func (cliClient *AzureCliCostClient) getAccount(ctx context.Context) (*azureAccount, error) {
	stdout, err := cliClient.run(ctx, cliClient.LoginTimeout, "account", "show", "-o", "json")
	if err != nil {
		if errors.Is(err, ErrCLINotFound) || errors.Is(err, ErrTimeout) {
			return nil, err
		}
		cliClient.Logger.Debugf("az account show failed: %v", err)
		return nil, ErrNotLoggedIn
	}

	account := &azureAccount{}
	if err := jsonclient.Decode(stdout, account); err != nil {
		cliClient.Logger.Debugf("Could not read account details: %v", err)
	}
	return account, nil
}

func (cliClient *AzureCliCostClient) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cliClient.Logger.Debugf("Running az cli: %s %s", cliClient.Executable, strings.Join(args, " "))
	stdout, stderr, err := cliClient.Runner.Run(ctx, cliClient.Executable, args...)
	if err == nil {
		return stdout, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return nil, ErrCLINotFound
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, ErrTimeout
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, fmt.Errorf("exit code %d: %s", exitErr.ExitCode(), strings.TrimSpace(string(stderr)))
	}
	return nil, err
}
