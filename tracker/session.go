package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/azure/cost-tracker/billing"
	"github.com/azure/cost-tracker/ledger"
	"github.com/azure/cost-tracker/llm"
	"github.com/azure/cost-tracker/resource"
)

const (
	AnalysisTopResources = 10
	NoCostDataMessage    = "No cost data available"
)

const analysisPromptTemplate = `You are an Azure cloud cost optimization expert.
Analyze these resources and their costs for the current month:

Total Monthly Cost: $%s
Top Resources:
%s

Provide specific recommendations for:
1. Which resources are unusually expensive
2. Potential cost savings opportunities
3. Resources that might be candidates for shutdown or resizing

Be concise and actionable.`

// Session holds the state of one tracker run: the current ledger and the AI handle.
type Session struct {
	CostClient billing.ICostClient
	Fallback   billing.ICostClient
	LLM        *llm.Client
	Logger     *logrus.Logger

	ledger     *ledger.Ledger
	sourceName string
	fellBack   bool
}

func NewSession(costClient billing.ICostClient, fallback billing.ICostClient, llmClient *llm.Client, logger *logrus.Logger) *Session {
	return &Session{
		CostClient: costClient,
		Fallback:   fallback,
		LLM:        llmClient,
		Logger:     logger,
	}
}

func (session *Session) Ledger() *ledger.Ledger {
	return session.ledger
}

// SourceName names the cost source that produced the current ledger.
func (session *Session) SourceName() string {
	return session.sourceName
}

// FellBack reports whether the current ledger came from the fallback source.
func (session *Session) FellBack() bool {
	return session.fellBack
}

// Refresh fetches costs and replaces the ledger. On failure the previous ledger is kept.
// A missing Azure CLI switches to the fallback source when one is configured.
func (session *Session) Refresh(ctx context.Context) error {
	source := session.CostClient
	entries, err := source.GetCosts(ctx)

	fellBack := false
	if errors.Is(err, billing.ErrCLINotFound) && session.Fallback != nil {
		session.Logger.Warnf("%v, using %s", err, session.Fallback.Name())
		source = session.Fallback
		fellBack = true
		entries, err = source.GetCosts(ctx)
	}
	if err != nil {
		session.Logger.Errorf("Failed to fetch costs from %s: %v", source.Name(), err)
		return fmt.Errorf("failed to fetch costs from %s: %w", source.Name(), err)
	}

	session.ledger = ledger.Build(entries)
	session.sourceName = source.Name()
	session.fellBack = fellBack
	session.Logger.Infof("Loaded %d resources with costs from %s", session.ledger.Len(), source.Name())
	return nil
}

// AnalysisPrompt describes the top resources of the current ledger for the AI backend.
func (session *Session) AnalysisPrompt() string {
	current := session.ledger
	lines := make([]string, 0, AnalysisTopResources)
	for _, entry := range current.Top(AnalysisTopResources) {
		lines = append(lines, fmt.Sprintf("$%s (%s%%) - %s [%s]",
			entry.Amount.StringFixed(2),
			current.Share(entry.Amount).StringFixed(1),
			resource.DisplayName(entry.ResourceID),
			resource.Categorize(entry.ResourceID),
		))
	}

	return fmt.Sprintf(analysisPromptTemplate, current.Total().StringFixed(2), strings.Join(lines, "\n"))
}

// Analyze asks the AI backend for recommendations on the current ledger.
func (session *Session) Analyze(ctx context.Context) string {
	if !session.LLM.Available() {
		return llm.NotAvailableMessage
	}
	if session.ledger.IsEmpty() {
		return NoCostDataMessage
	}
	return session.LLM.Ask(ctx, session.AnalysisPrompt())
}

func (session *Session) Close() error {
	return session.LLM.Close()
}
