package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/azure/cost-tracker/shell"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive cost menu",
	Long: `The run command loads the month-to-date costs and opens the interactive menu:

1. Show resources incurring costs
2. Open resource in Azure Portal
3. Ask AI for cost analysis
4. Show cost summary by category
5. Refresh cost data
6. Exit

Examples:
  # Use the az cli default subscription
  cost-tracker run

  # Try the tool without Azure access
  cost-tracker run --source demo

  # Query a subscription through the Azure SDK
  cost-tracker run --source sdk --subscriptionID 00000000-0000-0000-0000-000000000000`,
	Run: func(cmd *cobra.Command, args []string) {
		setupLogger()
		ctx := context.Background()

		session, err := newSession(ctx, true)
		if err != nil {
			log.Fatalf("Error creating session: %v", err)
		}
		defer session.Close()

		prompter := shell.NewLinerPrompter()
		defer prompter.Close()

		costShell := shell.NewShell(session, prompter, viper.GetInt("topResources"), log)
		if err := costShell.Run(ctx); err != nil {
			prompter.Close()
			session.Close()
			log.Fatalf("Error running cost tracker: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.Run = runCmd.Run

	rootCmd.PersistentFlags().IntP("topResources", "n", 20, "Number of resources shown in the cost table")
	viper.BindPFlag("topResources", rootCmd.PersistentFlags().Lookup("topResources"))
}
