package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"

	"github.com/azure/cost-tracker/billing"
	"github.com/azure/cost-tracker/llm"
	"github.com/azure/cost-tracker/resource"
	"github.com/azure/cost-tracker/tracker"
)

type MenuChoice int

const (
	MenuShowResources MenuChoice = iota + 1
	MenuOpenPortal
	MenuAskAI
	MenuCategorySummary
	MenuRefresh
	MenuExit
)

// Shell is the interactive menu loop over a tracker session.
type Shell struct {
	Session      *tracker.Session
	Prompter     IPrompter
	Writer       io.Writer
	OpenURL      func(url string) error
	TopResources int
	ShowSpinner  bool
	Logger       *logrus.Logger
}

func NewShell(session *tracker.Session, prompter IPrompter, topResources int, logger *logrus.Logger) *Shell {
	if topResources <= 0 {
		topResources = DefaultTopResources
	}

	return &Shell{
		Session:      session,
		Prompter:     prompter,
		Writer:       os.Stdout,
		OpenURL:      browser.OpenURL,
		TopResources: topResources,
		ShowSpinner:  true,
		Logger:       logger,
	}
}

// Run loads the initial costs and serves the menu until the user exits.
// Only a failure of the initial load is returned.
func (shell *Shell) Run(ctx context.Context) error {
	RenderBanner(shell.Writer)
	fmt.Fprintln(shell.Writer, "Loading initial cost data...")

	if err := shell.refresh(ctx); err != nil {
		printError(shell.Writer, "❌ Failed to load cost data. Exiting.")
		return fmt.Errorf("failed to load cost data: %w", err)
	}

	for {
		RenderMenu(shell.Writer)
		choice, err := shell.readChoice()
		if errors.Is(err, ErrAborted) {
			printWarning(shell.Writer, "\nOperation cancelled by user")
			return nil
		}
		if err != nil {
			shell.Logger.Debugf("Input closed: %v", err)
			return nil
		}

		if choice == MenuExit {
			printSuccess(shell.Writer, "👋 Goodbye!")
			return nil
		}

		shell.Dispatch(ctx, choice)

		fmt.Fprintln(shell.Writer)
		if _, err := shell.Prompter.Prompt("Press Enter to continue "); err != nil && !errors.Is(err, ErrAborted) {
			return nil
		}
	}
}

func (shell *Shell) readChoice() (MenuChoice, error) {
	for {
		input, err := shell.Prompter.Prompt("Enter your choice [1/2/3/4/5/6]: ")
		if err != nil {
			return 0, err
		}

		choice, err := strconv.Atoi(strings.TrimSpace(input))
		if err == nil && choice >= int(MenuShowResources) && choice <= int(MenuExit) {
			return MenuChoice(choice), nil
		}
		printError(shell.Writer, "Please select one of the available options")
	}
}

// Dispatch runs one menu action. Ctrl+C cancels the action's context, and a panic is
// reported without ending the loop.
func (shell *Shell) Dispatch(ctx context.Context, choice MenuChoice) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			shell.Logger.Errorf("Menu action %d panicked: %v", choice, r)
			printError(shell.Writer, "❌ Unexpected error: %v", r)
		}
	}()

	switch choice {
	case MenuShowResources:
		shell.ShowResources()
	case MenuOpenPortal:
		shell.OpenInPortal()
	case MenuAskAI:
		shell.AskAI(ctx)
	case MenuCategorySummary:
		shell.ShowCategorySummary()
	case MenuRefresh:
		shell.refresh(ctx)
	}
}

func (shell *Shell) ShowResources() {
	current := shell.Session.Ledger()
	if current.IsEmpty() {
		printWarning(shell.Writer, "No cost data available. Try option 5 to refresh.")
		return
	}
	RenderCostTable(shell.Writer, current, shell.TopResources)
}

func (shell *Shell) OpenInPortal() {
	current := shell.Session.Ledger()
	if current.IsEmpty() {
		printWarning(shell.Writer, tracker.NoCostDataMessage)
		return
	}

	shell.ShowResources()

	input, err := shell.Prompter.Prompt("Enter resource number to open in portal (1): ")
	if err != nil {
		printWarning(shell.Writer, "Operation cancelled")
		return
	}

	rank := 1
	if strings.TrimSpace(input) != "" {
		rank, err = strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			printError(shell.Writer, "Invalid selection")
			return
		}
	}

	entry, ok := current.Entry(rank)
	if !ok {
		printError(shell.Writer, "Invalid selection")
		return
	}

	url, ok := resource.PortalURL(entry.ResourceID)
	if !ok {
		printError(shell.Writer, "❌ Could not generate portal URL")
		return
	}

	printInfo(shell.Writer, "🌐 Opening in browser: %s", url)
	if err := shell.OpenURL(url); err != nil {
		shell.Logger.Warnf("Failed to open browser: %v", err)
		printError(shell.Writer, "❌ Could not open browser: %v", err)
	}
}

func (shell *Shell) AskAI(ctx context.Context) {
	if !shell.Session.LLM.Available() {
		printError(shell.Writer, "❌ %s", llm.NotAvailableMessage)
		return
	}
	if shell.Session.Ledger().IsEmpty() {
		printWarning(shell.Writer, tracker.NoCostDataMessage)
		return
	}

	printInfo(shell.Writer, "🤖 Analyzing costs with AI...")
	stop := shell.startSpinner(" Waiting for " + string(shell.Session.LLM.Kind()))
	analysis := shell.Session.Analyze(ctx)
	stop()

	RenderAnalysis(shell.Writer, analysis)
}

func (shell *Shell) ShowCategorySummary() {
	current := shell.Session.Ledger()
	if current.IsEmpty() {
		printWarning(shell.Writer, tracker.NoCostDataMessage)
		return
	}
	RenderCategoryTable(shell.Writer, current)
}

func (shell *Shell) refresh(ctx context.Context) error {
	printInfo(shell.Writer, "Fetching Azure costs...")
	stop := shell.startSpinner(" Querying " + shell.Session.CostClient.Name())
	err := shell.Session.Refresh(ctx)
	stop()

	if err != nil {
		printError(shell.Writer, "❌ %s", describeRefreshError(err))
		return err
	}

	if shell.Session.FellBack() {
		printError(shell.Writer, "❌ Azure CLI not found. Using demo mode with sample data.")
		printWarning(shell.Writer, "💡 This is demo data. Install Azure CLI and log in for real data.")
	}
	printSuccess(shell.Writer, "✓ Found %d resources with costs", shell.Session.Ledger().Len())
	return nil
}

func (shell *Shell) startSpinner(suffix string) func() {
	if !shell.ShowSpinner {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(shell.Writer))
	s.Suffix = suffix
	s.Start()
	return s.Stop
}

func describeRefreshError(err error) string {
	switch {
	case errors.Is(err, billing.ErrNotLoggedIn):
		return "Not logged into Azure CLI. Run: az login"
	case errors.Is(err, billing.ErrTimeout):
		return "Azure CLI request timed out"
	case errors.Is(err, billing.ErrNoCostData):
		return "No cost data found for this month"
	case errors.Is(err, billing.ErrMalformedData):
		return fmt.Sprintf("Failed to parse cost data: %v", err)
	}
	return fmt.Sprintf("Failed to fetch costs: %v", err)
}
