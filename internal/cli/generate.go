package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RemieJanssen/NetworkGenerators/pkg/config"
	netio "github.com/RemieJanssen/NetworkGenerators/pkg/io"
	"github.com/RemieJanssen/NetworkGenerators/pkg/pipeline"
	"github.com/RemieJanssen/NetworkGenerators/pkg/store"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	tips          int     // number of tips in the generated tree
	beta          float64 // beta-splitting parameter
	reticulations int     // number of reticulation insertions
	local         float64 // stop probability for local random-walk selection
	seed          uint64  // fixed seed (0 = draw fresh and report)
	format        string  // output format: el, pl, json
	output        string  // output file path ("" = stdout)
	profile       string  // config profile name
	configPath    string  // explicit config file path
	interactive   bool    // pick a profile interactively
	maxTries      int     // selection retry ceiling
	maxSteps      int     // random-walk step ceiling (0 = uncapped)
	noCache       bool    // disable caching
	refresh       bool    // bypass cache lookup
	archive       bool    // store the run in the archive
	mongoURI      string  // archive connection string
}

// generateCommand creates the generate command, the tool's main entry point.
//
// Defaults: 100 tips, beta 0.0, 10 reticulations, uniform edge selection
// unless --local is given, edge-list output.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{
		tips:          pipeline.DefaultTips,
		beta:          pipeline.DefaultBeta,
		reticulations: pipeline.DefaultReticulations,
		format:        pipeline.DefaultFormat,
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random phylogenetic network",
		Long: `Generate a random phylogenetic network.

A rooted binary tree is grown under the beta-splitting model, then the
requested number of reticulation edges is inserted. Edge pairs for
reticulations are chosen uniformly at random, or - with --local - by a
random walk with geometric stopping, which favors nearby branches.

Seeded runs are reproducible and cached; unseeded runs draw a fresh seed
and report it for reuse.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.tips, "tips", "n", opts.tips, "number of tips (leaves)")
	cmd.Flags().Float64VarP(&opts.beta, "beta", "b", opts.beta, "beta-splitting parameter")
	cmd.Flags().IntVarP(&opts.reticulations, "reticulations", "r", opts.reticulations, "number of reticulation edges")
	cmd.Flags().Float64VarP(&opts.local, "local", "l", 0, "use local random-walk edge selection with this stop probability")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 = draw a fresh seed and report it)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: el (edge list), pl (parent list), json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "config profile to fill unset flags from")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file path (default: ./netgen.toml, then XDG)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick a config profile interactively")
	cmd.Flags().IntVar(&opts.maxTries, "max-tries", 0, "edge-selection retry ceiling (0 = default)")
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", 0, "random-walk step ceiling (0 = uncapped)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even if the seeded run is cached")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "store the run in the MongoDB archive")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "archive connection string (default: $NETGEN_MONGO_URI)")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := cmd.Context()

	if err := c.applyProfile(cmd, opts); err != nil {
		return err
	}

	popts := pipeline.Options{
		Tips:          opts.tips,
		Beta:          opts.beta,
		Reticulations: opts.reticulations,
		Seed:          opts.seed,
		MaxTries:      opts.maxTries,
		MaxSteps:      opts.maxSteps,
		Format:        opts.format,
		Refresh:       opts.refresh,
		Archive:       opts.archive,
		Logger:        c.Logger,
	}
	if cmd.Flags().Changed("local") || opts.local != 0 {
		local := opts.local
		popts.StopProb = &local
	}

	var st store.Store
	if opts.archive {
		var err error
		st, err = newStore(ctx, opts.mongoURI)
		if err != nil {
			return fmt.Errorf("connect to archive: %w", err)
		}
		defer st.Close(ctx)
	}

	runner, err := c.newRunner(ctx, opts.noCache, st)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating network (%d tips, %d reticulations)...",
		popts.Tips, popts.Reticulations))
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if err := c.writeResult(result, opts); err != nil {
		return err
	}

	if opts.output != "" {
		printSuccess("Generated network %s", result.RunID)
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.Hit)
		if popts.Format == netio.FormatJSON {
			printNextStep("Render it", fmt.Sprintf("netgen render %s -f svg", opts.output))
		}
		if !cmd.Flags().Changed("seed") {
			printDetail("Seed: %d (reuse with --seed %d)", result.Seed, result.Seed)
		}
	}
	return nil
}

// applyProfile merges config-file values into flags the user left unset.
func (c *CLI) applyProfile(cmd *cobra.Command, opts *generateOpts) error {
	path, found := config.Locate(opts.configPath)
	if !found {
		if opts.configPath != "" {
			return fmt.Errorf("config file %s not found", opts.configPath)
		}
		if opts.profile != "" || opts.interactive {
			return fmt.Errorf("no config file found for --profile/--interactive")
		}
		return nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if opts.interactive {
		name, ok, err := pickProfile(cfg)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no profile selected")
		}
		opts.profile = name
	}

	profile, err := cfg.Resolve(opts.profile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if profile.Tips != nil && !flags.Changed("tips") {
		opts.tips = *profile.Tips
	}
	if profile.Beta != nil && !flags.Changed("beta") {
		opts.beta = *profile.Beta
	}
	if profile.Reticulations != nil && !flags.Changed("reticulations") {
		opts.reticulations = *profile.Reticulations
	}
	if profile.StopProb != nil && !flags.Changed("local") {
		opts.local = *profile.StopProb
	}
	if profile.Seed != nil && !flags.Changed("seed") {
		opts.seed = *profile.Seed
	}
	if profile.Format != nil && !flags.Changed("format") {
		opts.format = *profile.Format
	}
	if profile.MaxTries != nil && !flags.Changed("max-tries") {
		opts.maxTries = *profile.MaxTries
	}
	if profile.MaxSteps != nil && !flags.Changed("max-steps") {
		opts.maxSteps = *profile.MaxSteps
	}
	return nil
}

// writeResult writes the encoded network to the output file or stdout.
func (c *CLI) writeResult(result *pipeline.Result, opts *generateOpts) error {
	if opts.output == "" {
		_, err := os.Stdout.Write(result.Encoded)
		if err == nil && len(result.Encoded) > 0 {
			fmt.Println()
		}
		c.Logger.Info("generated network",
			"run_id", result.RunID,
			"seed", strconv.FormatUint(result.Seed, 10),
			"nodes", result.Stats.NodeCount,
			"edges", result.Stats.EdgeCount,
			"cached", result.CacheInfo.Hit)
		return err
	}

	if err := os.WriteFile(opts.output, result.Encoded, 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printFile(opts.output)
	return nil
}
