package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/BobsBlazed/Bobs-Latent-Optimizer/cmd"
)

func main() {
	cobra.CheckErr(cmd.NewCLI().ExecuteContext(context.Background()))
}
