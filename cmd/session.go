package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/azure/cost-tracker/azure"
	"github.com/azure/cost-tracker/billing"
	"github.com/azure/cost-tracker/filepathparser"
	"github.com/azure/cost-tracker/json"
	"github.com/azure/cost-tracker/llm"
	"github.com/azure/cost-tracker/tracker"
)

type CostSource string

const (
	CostSourceCli  CostSource = "cli"
	CostSourceSdk  CostSource = "sdk"
	CostSourceFile CostSource = "file"
	CostSourceDemo CostSource = "demo"
)

// newCostClients returns the configured cost source and, for the az cli source, the
// demo fallback used when az is not installed.
func newCostClients(ctx context.Context) (billing.ICostClient, billing.ICostClient, error) {
	subscriptionID := viper.GetString("subscriptionID")
	if subscriptionID != "" {
		if err := azure.ValidateSubscriptionID(subscriptionID); err != nil {
			return nil, nil, err
		}
	}

	switch CostSource(viper.GetString("source")) {
	case CostSourceCli:
		return billing.NewAzureCliCostClient(subscriptionID, log), billing.NewDemoCostClient(), nil
	case CostSourceSdk:
		if subscriptionID == "" {
			subscriptionClient, err := azure.NewSubscriptionClient(log)
			if err != nil {
				return nil, nil, err
			}
			subscription, err := subscriptionClient.DefaultSubscription(ctx)
			if err != nil {
				return nil, nil, fmt.Errorf("error discovering subscription: %w", err)
			}
			subscriptionID = subscription.ID
		}
		sdkClient, err := billing.NewAzureSdkCostClient(subscriptionID, log)
		if err != nil {
			return nil, nil, err
		}
		return sdkClient, nil, nil
	case CostSourceFile:
		queryFile, err := filepathparser.ParseOptionalPath(viper.GetString("queryFile"))
		if err != nil {
			return nil, nil, fmt.Errorf("error getting query file path: %w", err)
		}
		if queryFile == "" {
			return nil, nil, fmt.Errorf("--queryFile is required when the source is file")
		}
		return billing.NewFileCostClient(queryFile, json.NewJsonClient("", log), log), nil, nil
	case CostSourceDemo:
		return billing.NewDemoCostClient(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown cost source %q, expected cli, sdk, file or demo", viper.GetString("source"))
}

// newLLMClient probes Ollama first and llama.cpp second. It returns nil when neither works.
func newLLMClient(ctx context.Context) *llm.Client {
	if viper.GetBool("disableAI") {
		log.Info("AI features disabled")
		return nil
	}

	modelPath, err := filepathparser.ParsePath(viper.GetString("modelPath"))
	if err != nil {
		log.Warnf("Error getting model path: %v", err)
		modelPath = viper.GetString("modelPath")
	}

	client, err := llm.Initialize(ctx, log,
		llm.NewOllamaBackend(viper.GetString("ollamaURL"), viper.GetString("modelName"), log),
		llm.NewLlamaCppBackend(viper.GetString("llamaServer"), modelPath, viper.GetInt("contextSize"), viper.GetInt("maxTokens"), log),
	)
	if err != nil {
		log.Warnf("LLM initialization failed, AI features will be disabled: %v", err)
		return nil
	}
	return client
}

func newSession(ctx context.Context, withAI bool) (*tracker.Session, error) {
	costClient, fallback, err := newCostClients(ctx)
	if err != nil {
		return nil, err
	}

	var llmClient *llm.Client
	if withAI {
		llmClient = newLLMClient(ctx)
	}

	return tracker.NewSession(costClient, fallback, llmClient, log), nil
}
