package cli

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/expunge-go/expunge/internal/resolve"
)

const listLongDescription = `List the annotated types found in the given packages together with
what would be generated for each.

` + packagePatternsHelp

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [packages...]",
		Short: "List annotated types",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, packagesFromArgs(args))
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, patterns []string) error {
	plan, err := buildPlan(patterns)
	if err != nil {
		return err
	}

	printDiagnostics(cmd, &plan.Diagnostics)

	cmd.Print(renderPlanTable(plan))

	return nil
}

// renderPlanTable formats the plan as a table, one row per type.
func renderPlanTable(plan *resolve.Plan) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Package", "Type", "Kind", "Members", "Slog"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	total := 0

	for _, tp := range plan.Types {
		actioned, members := countActions(tp)

		slogCell := ""
		if tp.Slog {
			slogCell = "yes"
		}

		table.Append([]string{
			tp.Type.ID.PkgPath,
			tp.Type.ID.Name,
			tp.Type.Kind.String(),
			fmt.Sprintf("%d/%d", actioned, members),
			slogCell,
		})

		total++
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Types %d", total), "", "", "", "",
	})

	table.Render()

	return buf.String()
}

// countActions returns how many members get an action versus how many
// members the type (or its variants) has in total.
func countActions(tp *resolve.TypePlan) (actioned, members int) {
	count := func(ms []resolve.MemberPlan) {
		for _, m := range ms {
			members++

			if m.Action.Kind != resolve.ActionKeep && m.Action.Kind != resolve.ActionSkip {
				actioned++
			}
		}
	}

	count(tp.Members)

	for i := range tp.Variants {
		count(tp.Variants[i].Members)
	}

	return actioned, members
}
