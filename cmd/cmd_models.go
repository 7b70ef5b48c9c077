package cmd

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/BobsBlazed/Bobs-Latent-Optimizer/latent"
)

// ModelsHandler lists the supported model families and their sizing
// profiles.
func ModelsHandler(cmd *cobra.Command, args []string) error {
	var data [][]string
	for _, m := range latent.ModelTypes() {
		profile := m.Profile()

		renorm := "-"
		if profile.RenormalizeArea {
			renorm = "yes"
		}

		data = append(data, []string{string(m), strconv.Itoa(profile.RoundTo), strconv.Itoa(profile.Channels), renorm})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"MODEL", "ROUND TO", "CHANNELS", "AREA RENORM"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported model families",
		Args:  cobra.ExactArgs(0),
		RunE:  ModelsHandler,
	}
}
