package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/azure/cost-tracker/llm"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask the local AI backend for a cost analysis of the current month",
	Long: `The ask command loads the month-to-date costs, sends the ten most expensive resources
to the first available AI backend (Ollama, then llama.cpp) and prints its recommendations.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setupLogger()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		session, err := newSession(ctx, true)
		if err != nil {
			log.Fatalf("Error creating session: %v", err)
		}
		defer session.Close()

		if !session.LLM.Available() {
			fmt.Fprintln(os.Stderr, llm.NotAvailableMessage)
			session.Close()
			os.Exit(1)
		}

		if err := session.Refresh(ctx); err != nil {
			session.Close()
			log.Fatalf("Error loading cost data: %v", err)
		}

		fmt.Println(session.Analyze(ctx))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
