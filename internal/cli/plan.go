package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xbar/pkg/pipeline"
)

// planOpts holds the plan command flags.
type planOpts struct {
	terminals int
	format    string
	output    string
	noCache   bool
	refresh   bool
}

// planCommand writes the wiring plan for n terminals.
func (c *CLI) planCommand() *cobra.Command {
	var opts planOpts

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate the wiring plan for n terminals",
		Long: `Generate the wiring plan for n terminals.

The json format writes one document with the block table and every wire.
The jsonl format streams one wire per line in generation order.`,
		Example: `  xbar plan -n 8
  xbar plan -n 64 -f jsonl -o wires.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.format == "" {
				opts.format = c.config.Format
			}
			return c.runPlan(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.terminals, "terminals", "n", 0, "number of terminals")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, jsonl (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the Redis plan cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate and overwrite the cached plan")
	_ = cmd.MarkFlagRequired("terminals")

	return cmd
}

func (c *CLI) runPlan(cmd *cobra.Command, opts planOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Terminals: opts.terminals,
		Format:    opts.format,
		Refresh:   opts.refresh,
	})
	if err != nil {
		return err
	}
	logger.Debug("plan ready",
		"connections", result.Stats.Connections,
		"bytes", result.Stats.Bytes,
		"cached", result.CacheHit)

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(result.Artifact)
		return err
	}
	if err := os.WriteFile(opts.output, result.Artifact, 0o644); err != nil {
		return err
	}
	prog.done("Wrote plan")
	printFile(cmd.ErrOrStderr(), opts.output)
	if result.CacheHit {
		printInfo(cmd.ErrOrStderr(), "served from cache")
	}
	return nil
}
