package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

type IJsonClient interface {
	Export(value any, writer io.Writer) error
	Import(fileName string, value any) error
}

type JsonClient struct {
	WorkingFolderPath string
	Logger            *logrus.Logger
}

func NewJsonClient(workingFolderPath string, logger *logrus.Logger) *JsonClient {
	return &JsonClient{
		WorkingFolderPath: workingFolderPath,
		Logger:            logger,
	}
}

func (jsonClient *JsonClient) Export(value any, writer io.Writer) error {
	content, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("error during Marshal(): %w", err)
	}
	content = append(content, '\n')
	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("error writing json: %w", err)
	}
	return nil
}

// Import decodes a JSON file into value. Numbers are kept as json.Number so that
// amounts are not rounded through float64.
func (jsonClient *JsonClient) Import(fileName string, value any) error {
	jsonFilePath := fileName
	if !filepath.IsAbs(jsonFilePath) {
		jsonFilePath = filepath.Join(jsonClient.WorkingFolderPath, fileName)
	}

	content, err := os.ReadFile(jsonFilePath)
	if err != nil {
		return fmt.Errorf("error when opening file: %w", err)
	}
	jsonClient.Logger.Debugf("Read %d bytes from %s", len(content), jsonFilePath)

	return Decode(content, value)
}

// Decode unmarshals content into value using json.Number for numbers.
func Decode(content []byte, value any) error {
	decoder := json.NewDecoder(bytes.NewReader(content))
	decoder.UseNumber()
	if err := decoder.Decode(value); err != nil {
		return fmt.Errorf("error during Unmarshal(): %w", err)
	}
	return nil
}
