package shell

import (
	"fmt"
	"io"
	"strconv"

	"github.com/common-nighthawk/go-figure"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/azure/cost-tracker/ledger"
	"github.com/azure/cost-tracker/resource"
)

const (
	AppTitle            = "Azure Cost CLI Tracker"
	DefaultTopResources = 20
)

func RenderBanner(writer io.Writer) {
	fmt.Fprintln(writer, titleStyle.Render(figure.NewFigure("cost tracker", "", true).String()))
}

func RenderMenu(writer io.Writer) {
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, menuStyle.Render(titleStyle.Render(AppTitle)))
	fmt.Fprintln(writer, "1. Show resources incurring costs")
	fmt.Fprintln(writer, "2. Open resource in Azure Portal")
	fmt.Fprintln(writer, "3. Ask AI for cost analysis")
	fmt.Fprintln(writer, "4. Show cost summary by category")
	fmt.Fprintln(writer, "5. Refresh cost data")
	fmt.Fprintln(writer, "6. Exit")
}

// RenderCostTable prints the top entries of the ledger followed by the count of hidden ones.
func RenderCostTable(writer io.Writer, current *ledger.Ledger, top int) {
	tw := table.Table{}
	tw.SetTitle("Azure Resources by Cost (Month to Date)")
	tw.AppendHeader(table.Row{"Rank", "Cost (USD)", "Resource Name", "Type", "Category"})

	for i, entry := range current.Top(top) {
		tw.AppendRow(table.Row{
			text.FgCyan.Sprint(strconv.Itoa(i + 1)),
			text.FgGreen.Sprintf("$%s", entry.Amount.StringFixed(2)),
			resource.DisplayName(entry.ResourceID),
			text.FgBlue.Sprint(resource.TypeName(entry.ResourceID)),
			text.FgMagenta.Sprint(string(resource.Categorize(entry.ResourceID))),
		})
	}

	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
	})
	fmt.Fprintln(writer, tw.Render())

	if overflow := current.Overflow(top); overflow > 0 {
		fmt.Fprintln(writer, dimStyle.Render(fmt.Sprintf("... and %d more resources", overflow)))
	}
}

func RenderCategoryTable(writer io.Writer, current *ledger.Ledger) {
	tw := table.Table{}
	tw.SetTitle("Cost Summary by Category")
	tw.AppendHeader(table.Row{"Category", "Total Cost", "Resources", "Avg Cost"})

	for _, summary := range current.ByCategory() {
		tw.AppendRow(table.Row{
			text.FgCyan.Sprint(string(summary.Category)),
			text.FgGreen.Sprintf("$%s (%s%%)", summary.Total.StringFixed(2), current.Share(summary.Total).StringFixed(1)),
			summary.Count,
			text.FgYellow.Sprintf("$%s", summary.Average.StringFixed(2)),
		})
	}

	tw.AppendFooter(table.Row{"Total", fmt.Sprintf("$%s", current.Total().StringFixed(2)), current.Len(), ""})
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignCenter},
		{Number: 4, Align: text.AlignRight},
	})
	fmt.Fprintln(writer, tw.Render())
}

func RenderAnalysis(writer io.Writer, analysis string) {
	fmt.Fprintln(writer, analysisStyle.Render(titleStyle.Render("AI Cost Analysis")+"\n\n"+analysis))
}

func printInfo(writer io.Writer, format string, args ...any) {
	fmt.Fprintln(writer, infoStyle.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(writer io.Writer, format string, args ...any) {
	fmt.Fprintln(writer, successStyle.Render(fmt.Sprintf(format, args...)))
}

func printWarning(writer io.Writer, format string, args ...any) {
	fmt.Fprintln(writer, warningStyle.Render(fmt.Sprintf(format, args...)))
}

func printError(writer io.Writer, format string, args ...any) {
	fmt.Fprintln(writer, errorStyle.Render(fmt.Sprintf(format, args...)))
}
