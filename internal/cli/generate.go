package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/yaohuangguan/orion-voice2map/pkg/errors"
	"github.com/yaohuangguan/orion-voice2map/pkg/integrations/gemini"
)

// generateCommand creates the generate command for structuring transcripts.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output   string
		noCache  bool
		refresh  bool
		maxNodes int
		language string
		model    string
	)

	cmd := &cobra.Command{
		Use:   "generate [transcript.txt]",
		Short: "Structure a voice-note transcript into a mind map tree",
		Long: `Structure a voice-note transcript into a mind map tree.

The generate command reads a transcript file (or stdin when the argument is
"-") and asks the configured model to organize it into a hierarchical
outline. The output is a tree.json file that the layout, export, and edit
commands consume.

Requires a Gemini API key (config file or VOICE2MAP_GEMINI_API_KEY).
Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], generateParams{
				output:   output,
				noCache:  noCache,
				refresh:  refresh,
				maxNodes: maxNodes,
				language: language,
				model:    model,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.tree.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache for this run")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "soft cap on total nodes (0 = no cap)")
	cmd.Flags().StringVar(&language, "language", "", "output language hint (default: match transcript)")
	cmd.Flags().StringVar(&model, "model", "", "model name (default: "+gemini.DefaultModel+")")

	return cmd
}

type generateParams struct {
	output   string
	noCache  bool
	refresh  bool
	maxNodes int
	language string
	model    string
}

func (c *CLI) runGenerate(ctx context.Context, input string, p generateParams) error {
	transcript, err := readTranscript(input)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Gemini.APIKey == "" {
		return apperrors.New(apperrors.ErrCodeMissingKey, "no Gemini API key configured (set VOICE2MAP_GEMINI_API_KEY or [gemini] api_key)")
	}

	opts := gemini.Options{Model: p.model, MaxNodes: p.maxNodes, Language: p.language}
	if opts.Model == "" {
		opts.Model = cfg.Gemini.Model
	}
	if opts.MaxNodes == 0 {
		opts.MaxNodes = cfg.Gemini.MaxNodes
	}
	if opts.Language == "" {
		opts.Language = cfg.Gemini.Language
	}

	backend := c.newCache(ctx, cfg, p.noCache)
	defer backend.Close()
	client := gemini.NewClient(cfg.Gemini.APIKey, backend, cfg.CacheTTL(), opts)

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Structuring transcript...")
	spinner.Start()

	root, err := client.StructureTranscript(ctx, transcript, p.refresh)
	if err != nil {
		spinner.StopWithError("Structuring failed")
		return fmt.Errorf("structure transcript: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := p.output
	if outputPath == "" {
		base := input
		if base == "-" {
			base = "transcript"
		}
		base = strings.TrimSuffix(base, filepath.Ext(base))
		outputPath = base + ".tree.json"
	}
	if err := writeTreeFile(root, outputPath); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Structured %d nodes", root.Count()))
	printSuccess("Mind map generated")
	printFile(outputPath)
	printStats(root.Count(), root.Count()-1, false)
	printNewline()
	printNextStep("Lay out", "voice2map layout "+outputPath)

	return nil
}
