package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/BobsBlazed/Bobs-Latent-Optimizer/envconfig"
	"github.com/BobsBlazed/Bobs-Latent-Optimizer/logutil"
	"github.com/BobsBlazed/Bobs-Latent-Optimizer/version"
)

func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

func versionHandler(_ *cobra.Command, _ []string) {
	fmt.Printf("bobslatent version is %s\n", version.Version)
}

// NewCLI builds the bobslatent command tree.
func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "bobslatent",
		Short:         "Latent dimension planner for image generation models",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	planCmd := newPlanCmd()
	modelsCmd := newModelsCmd()
	sizesCmd := newSizesCmd()

	envVars := envconfig.AsMap()
	appendEnvDocs(planCmd, []envconfig.EnvVar{
		envVars["LATENT_DEBUG"],
		envVars["LATENT_TILE_POLICY"],
		envVars["LATENT_MAX_TILE_DIM"],
		envVars["LATENT_BACKEND"],
		envVars["LATENT_DTYPE"],
	})

	for _, c := range []*cobra.Command{modelsCmd, sizesCmd} {
		appendEnvDocs(c, []envconfig.EnvVar{envVars["LATENT_DEBUG"]})
	}

	rootCmd.AddCommand(
		planCmd,
		modelsCmd,
		sizesCmd,
	)

	return rootCmd
}
