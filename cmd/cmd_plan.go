package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/BobsBlazed/Bobs-Latent-Optimizer/envconfig"
	"github.com/BobsBlazed/Bobs-Latent-Optimizer/format"
	"github.com/BobsBlazed/Bobs-Latent-Optimizer/latent"
	"github.com/BobsBlazed/Bobs-Latent-Optimizer/ml"
	_ "github.com/BobsBlazed/Bobs-Latent-Optimizer/ml/backend/cpu"
)

// PlanHandler resolves a latent plan and renders it.
func PlanHandler(cmd *cobra.Command, args []string) error {
	aspect := "1:1"
	if len(args) > 0 {
		aspect = args[0]
	}

	modelName, _ := cmd.Flags().GetString("model")
	model, err := latent.ParseModelType(modelName)
	if err != nil {
		return err
	}

	backend, err := ml.NewBackend(envconfig.Backend())
	if err != nil {
		return err
	}

	dtypeName, _ := cmd.Flags().GetString("dtype")
	if dtypeName == "" {
		dtypeName = envconfig.DType()
	}

	dtype, err := ml.ParseDType(dtypeName)
	if err != nil {
		return err
	}

	strategy, err := tileStrategy(cmd)
	if err != nil {
		return err
	}

	mp, _ := cmd.Flags().GetString("mp")
	mpFloat, _ := cmd.Flags().GetFloat64("mp-float")
	upscale, _ := cmd.Flags().GetFloat64("upscale")
	batch, _ := cmd.Flags().GetInt("batch")

	planner := latent.NewPlanner(backend, latent.WithTileStrategy(strategy), latent.WithDType(dtype))

	result, err := planner.Plan(latent.Request{
		AspectRatio: aspect,
		MPSize:      latent.MegapixelSize(mp),
		MPSizeFloat: mpFloat,
		UpscaleBy:   upscale,
		ModelType:   model,
		BatchSize:   batch,
	})
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writePlanJSON(cmd.OutOrStdout(), model, result)
	}

	showPlan(result, model, cmd.OutOrStdout())
	return nil
}

func tileStrategy(cmd *cobra.Command) (latent.TileStrategy, error) {
	policy, _ := cmd.Flags().GetString("policy")
	if policy == "" {
		policy = envconfig.TilePolicy()
	}

	switch strings.ToLower(policy) {
	case "adaptive":
		return latent.AdaptiveTiles{MaxTileDim: int(envconfig.MaxTileDim())}, nil
	case "grid":
		return latent.FixedGrid{}, nil
	default:
		return nil, fmt.Errorf("unknown tile policy %q (expected adaptive or grid)", policy)
	}
}

func writePlanJSON(w io.Writer, model latent.ModelType, result *latent.Result) error {
	out := struct {
		Model       latent.ModelType `json:"model"`
		LatentShape []int            `json:"latent_shape"`
		LatentBytes int64            `json:"latent_bytes"`
		DType       string           `json:"dtype"`
		*latent.Result
	}{
		Model:       model,
		LatentShape: result.Latent.Shape(),
		LatentBytes: result.Latent.NumBytes(),
		DType:       result.Latent.DType().String(),
		Result:      result,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func showPlan(result *latent.Result, model latent.ModelType, w io.Writer) {
	tableRender := func(header string, rows func() [][]string) {
		fmt.Fprintln(w, " ", header)

		table := tablewriter.NewWriter(w)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")
		table.AppendBulk(rows())
		table.Render()

		fmt.Fprintln(w)
	}

	tableRender("Base", func() (rows [][]string) {
		rows = append(rows, []string{"", "model", string(model)})
		rows = append(rows, []string{"", "size", fmt.Sprintf("%dx%d", result.Width, result.Height)})
		rows = append(rows, []string{"", "channels", strconv.Itoa(result.Channels)})
		return
	})

	tableRender("Latent", func() (rows [][]string) {
		shape := result.Latent.Shape()
		dims := make([]string, len(shape))
		for i, dim := range shape {
			dims[i] = strconv.Itoa(dim)
		}

		rows = append(rows, []string{"", "shape", "[" + strings.Join(dims, " ") + "]"})
		rows = append(rows, []string{"", "dtype", result.Latent.DType().String()})
		rows = append(rows, []string{"", "buffer", format.HumanBytes(result.Latent.NumBytes())})
		return
	})

	tableRender("Tiling", func() (rows [][]string) {
		rows = append(rows, []string{"", "upscale by", strconv.FormatFloat(result.UpscaleBy, 'g', -1, 64)})
		rows = append(rows, []string{"", "upscaled size", fmt.Sprintf("%dx%d", result.UpscaledWidth, result.UpscaledHeight)})
		rows = append(rows, []string{"", "grid", fmt.Sprintf("%dx%d (%d tiles)", result.TilesX, result.TilesY, result.Tiles())})
		rows = append(rows, []string{"", "tile size", fmt.Sprintf("%dx%d", result.TileWidth, result.TileHeight)})
		return
	})
}

func newPlanCmd() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan [ASPECT]",
		Short: "Plan a latent buffer and upscale tiling for an aspect ratio",
		Args:  cobra.MaximumNArgs(1),
		RunE:  PlanHandler,
	}

	planCmd.Flags().String("mp", string(latent.DefaultMPSize), "Megapixel size preset for the base image")
	planCmd.Flags().Float64("mp-float", 0, "Continuous megapixel target, overrides --mp when set")
	planCmd.Flags().String("model", string(latent.ModelFLUX), "Model family: FLUX, SDXL, SD3, QWEN or WAN")
	planCmd.Flags().Float64("upscale", 2.0, "Upscale factor for the final output image")
	planCmd.Flags().Int("batch", 1, "Number of latent images in the batch")
	planCmd.Flags().String("policy", "", "Tile policy: adaptive or grid")
	planCmd.Flags().String("dtype", "", "Latent element type: f32, f16 or bf16")
	planCmd.Flags().Bool("json", false, "Print the plan as JSON")

	return planCmd
}
