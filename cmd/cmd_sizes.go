package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/BobsBlazed/Bobs-Latent-Optimizer/format"
	"github.com/BobsBlazed/Bobs-Latent-Optimizer/latent"
)

// SizesHandler lists the megapixel presets and their reference areas.
func SizesHandler(cmd *cobra.Command, args []string) error {
	var data [][]string
	for _, size := range latent.MegapixelSizes() {
		w, h := size.Reference()
		data = append(data, []string{string(size), fmt.Sprintf("%dx%d", w, h), format.HumanNumber(uint64(size.Area()))})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"SIZE", "REFERENCE", "PIXELS"})
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

func newSizesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sizes",
		Short: "List megapixel size presets",
		Args:  cobra.ExactArgs(0),
		RunE:  SizesHandler,
	}
}
