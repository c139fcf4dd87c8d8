package billing

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	jsonclient "github.com/azure/cost-tracker/json"
	"github.com/azure/cost-tracker/types"
)

// FileCostClient reads a saved `az costmanagement query` response.
type FileCostClient struct {
	FileName   string
	JsonClient jsonclient.IJsonClient
	Logger     *logrus.Logger
}

func NewFileCostClient(fileName string, jsonClient jsonclient.IJsonClient, logger *logrus.Logger) *FileCostClient {
	return &FileCostClient{
		FileName:   fileName,
		JsonClient: jsonClient,
		Logger:     logger,
	}
}

func (fileClient *FileCostClient) Name() string {
	return "file " + fileClient.FileName
}

func (fileClient *FileCostClient) GetCosts(ctx context.Context) ([]types.CostEntry, error) {
	var response types.CostQueryResponse
	if err := fileClient.JsonClient.Import(fileClient.FileName, &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	if len(response.Properties.Rows) == 0 {
		return nil, ErrNoCostData
	}

	entries, err := EntriesFromRows(response.Properties.Rows)
	if err != nil {
		return nil, err
	}
	fileClient.Logger.Infof("Loaded %d rows from %s", len(entries), fileClient.FileName)
	return entries, nil
}
