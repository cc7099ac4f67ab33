package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/z9m/backdrop/pkg/config"
	"github.com/z9m/backdrop/pkg/metadata"
	"github.com/z9m/backdrop/pkg/pipeline"
	"github.com/z9m/backdrop/pkg/scene"
)

// layoutFlags holds the layout command's flag values that do not map
// directly onto pipeline.Options.
type layoutFlags struct {
	output       string
	noCache      bool
	metadataFile string
	brightness   int
	timeout      time.Duration
}

// layoutCommand creates the layout command for laying out scene files.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags layoutFlags
		meta  metadata.Metadata
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [scene.json]",
		Short: "Fill a scene with metadata and lay it out",
		Long: `Fill a scene with metadata and lay it out.

The layout command reads a scene (canvas, margins, elements and fade settings),
writes the media metadata into its text tags, resizes the backdrop and logo
images, packs every element around the profile's blocked areas and regenerates
the fades. The output is a scene file in the same format.

Metadata can come from a JSON file (--metadata), from individual flags, or
both; flags win over the file.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.metadataFile != "" {
				fromFile, err := readMetadata(flags.metadataFile)
				if err != nil {
					return err
				}
				opts.Metadata = mergeMetadata(fromFile, meta)
			} else {
				opts.Metadata = meta
			}
			if cmd.Flags().Changed("brightness") {
				b := flags.brightness
				opts.Brightness = &b
			}
			return c.runLayout(cmd.Context(), args[0], opts, flags)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "how long to wait for image sizes (default: from config)")

	// Metadata flags
	cmd.Flags().StringVar(&flags.metadataFile, "metadata", "", "JSON file with the media metadata")
	cmd.Flags().StringVar(&meta.Title, "title", "", "title text")
	cmd.Flags().StringVar(&meta.Year, "year", "", "release year")
	cmd.Flags().StringVar(&meta.Rating, "rating", "", "community rating")
	cmd.Flags().StringVar(&meta.Overview, "overview", "", "plot overview")
	cmd.Flags().StringVar(&meta.Genres, "genres", "", "comma-separated genres")
	cmd.Flags().StringVar(&meta.Runtime, "runtime", "", "runtime text")
	cmd.Flags().StringVar(&meta.OfficialRating, "official-rating", "", "age rating (e.g. PG-13)")
	cmd.Flags().StringVar(&meta.Source, "source", "", "provider label source (e.g. netflix)")

	// Asset flags
	cmd.Flags().StringVar(&opts.BackdropURL, "backdrop", "", "replace the background image")
	cmd.Flags().StringVar(&opts.LogoURL, "logo", "", "replace the title logo")
	cmd.Flags().BoolVar(&opts.AutoColor, "auto-color", false, "derive the background and fade colour from the backdrop")
	cmd.Flags().IntVar(&flags.brightness, "brightness", config.DefaultBrightness, "brightness percentage for --auto-color")

	// Layout flags
	cmd.Flags().StringVar(&opts.ProfileID, "profile", "", "overlay profile to avoid (overrides the scene)")
	cmd.Flags().BoolVar(&opts.KeepCanvas, "keep-canvas", false, "keep the scene's canvas size")
	cmd.Flags().BoolVar(&opts.SkipFades, "no-fades", false, "leave fade shapes untouched")
	cmd.Flags().BoolVar(&opts.Guide, "guide", false, "add the profile's overlay image as a guide")

	return cmd
}

// runLayout loads the scene, runs the pipeline, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, flags layoutFlags) error {
	s, err := scene.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.AssetTimeout = cfg.Assets.Timeout.Duration
	if flags.timeout > 0 {
		opts.AssetTimeout = flags.timeout
	}
	if opts.Brightness == nil && s.BackgroundBrightness == nil {
		b := cfg.Assets.Brightness
		opts.Brightness = &b
	}

	spinner := newSpinnerWithContext(ctx, "Laying out scene...")
	spinner.Start()

	res, err := runner.Execute(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("lay out scene: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultOutputPath(input)
	}

	if err := scene.WriteFile(outputPath, res.Scene); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res.Stats.Elements, res.Stats.TagsFilled, len(res.Warnings), res.CacheInfo.LayoutHit)
	if res.Profile.ID != "" {
		printKeyValue("profile", profileLabel(res.Profile))
	}
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}
	if res.Diagnostics.Deferred {
		printNewline()
		printNextStep("Retry once the images load", "backdrop layout --refresh "+input)
	}

	return nil
}

// defaultOutputPath maps scene.json to scene.layout.json.
func defaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

func profileLabel(p pipeline.ProfileInfo) string {
	switch {
	case p.Missing:
		return p.ID + " (not found)"
	case p.Name != "":
		return fmt.Sprintf("%s (%d areas)", p.Name, p.Areas)
	default:
		return p.ID
	}
}

// readMetadata decodes a metadata JSON file.
func readMetadata(path string) (metadata.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("read metadata %s: %w", path, err)
	}
	var m metadata.Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return metadata.Metadata{}, fmt.Errorf("decode metadata %s: %w", path, err)
	}
	return m, nil
}

// mergeMetadata returns base with every non-empty field of override applied.
func mergeMetadata(base, override metadata.Metadata) metadata.Metadata {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.Title, override.Title)
	set(&base.Year, override.Year)
	set(&base.Rating, override.Rating)
	set(&base.Overview, override.Overview)
	set(&base.Genres, override.Genres)
	set(&base.Runtime, override.Runtime)
	set(&base.OfficialRating, override.OfficialRating)
	set(&base.Source, override.Source)
	return base
}
