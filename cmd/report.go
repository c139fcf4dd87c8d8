package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/azure/cost-tracker/csv"
	"github.com/azure/cost-tracker/json"
	"github.com/azure/cost-tracker/shell"
	"github.com/azure/cost-tracker/tracker"
)

type ReportFormat string

const (
	ReportFormatTable ReportFormat = "table"
	ReportFormatJson  ReportFormat = "json"
	ReportFormatCsv   ReportFormat = "csv"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the month-to-date cost ledger without the interactive menu",
	Long: `The report command loads the month-to-date costs once and writes them to stdout.

Examples:
  # Ten most expensive resources as a table
  cost-tracker report --top 10

  # Category totals as CSV
  cost-tracker report --format csv --byCategory

  # Full ledger from a saved query response as JSON
  cost-tracker report --source file --queryFile ./costs.json --format json`,
	Run: func(cmd *cobra.Command, args []string) {
		setupLogger()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		session, err := newSession(ctx, false)
		if err != nil {
			log.Fatalf("Error creating session: %v", err)
		}
		if err := session.Refresh(ctx); err != nil {
			log.Fatalf("Error loading cost data: %v", err)
		}
		if session.FellBack() {
			log.Warnf("Azure CLI not found, reporting %s", session.SourceName())
		}

		top := viper.GetInt("reportTop")
		byCategory := viper.GetBool("byCategory")
		current := session.Ledger()

		switch ReportFormat(viper.GetString("format")) {
		case ReportFormatTable:
			if byCategory {
				shell.RenderCategoryTable(os.Stdout, current)
			} else {
				if top <= 0 {
					top = current.Len()
				}
				shell.RenderCostTable(os.Stdout, current, top)
			}
		case ReportFormatJson:
			report := tracker.BuildReport(current, session.SourceName(), top, byCategory)
			err = json.NewJsonClient("", log).Export(report, os.Stdout)
		case ReportFormatCsv:
			csvClient := csv.NewCostCsvClient(log)
			if byCategory {
				err = csvClient.ExportCategories(current, os.Stdout)
			} else {
				err = csvClient.Export(current, top, os.Stdout)
			}
		default:
			err = fmt.Errorf("unknown format %q, expected table, json or csv", viper.GetString("format"))
		}
		if err != nil {
			log.Fatalf("Error writing report: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("format", "o", "table", "Output format (table, json, csv)")
	viper.BindPFlag("format", reportCmd.Flags().Lookup("format"))
	reportCmd.Flags().IntP("top", "t", 0, "Only report the most expensive resources (0 reports all)")
	viper.BindPFlag("reportTop", reportCmd.Flags().Lookup("top"))
	reportCmd.Flags().BoolP("byCategory", "c", false, "Report totals per category instead of per resource")
	viper.BindPFlag("byCategory", reportCmd.Flags().Lookup("byCategory"))
}
