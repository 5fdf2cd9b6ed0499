package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xbar/pkg/crossbar"
	apperr "github.com/matzehuels/xbar/pkg/errors"
	"github.com/matzehuels/xbar/pkg/plan"
)

// verifyOpts holds the verify command flags.
type verifyOpts struct {
	terminals int
	from      int
	to        int
	workers   int
	planFile  string
}

// verifyCommand checks generated plans, or a plan file, against every
// wiring property.
func (c *CLI) verifyCommand() *cobra.Command {
	var opts verifyOpts

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check wiring plans for correctness",
		Long: `Check wiring plans for correctness.

With -n a single crossbar is generated and checked. With --from and --to
every terminal count in the range is checked concurrently. With --plan a
previously written JSON plan is decoded and validated.`,
		Example: `  xbar verify -n 100
  xbar verify --from 0 --to 300 --workers 8
  xbar verify --plan plan.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			switch {
			case flags.Changed("plan"):
				return c.verifyFile(cmd, opts.planFile)
			case flags.Changed("from"):
				return c.verifyRange(cmd, opts)
			case flags.Changed("terminals"):
				return c.verifyOne(cmd, opts.terminals)
			}
			return apperr.New(apperr.ErrCodeInvalidArgument, "one of -n, --from/--to or --plan is required")
		},
	}

	cmd.Flags().IntVarP(&opts.terminals, "terminals", "n", 0, "number of terminals")
	cmd.Flags().IntVar(&opts.from, "from", 0, "first terminal count of a range")
	cmd.Flags().IntVar(&opts.to, "to", 0, "last terminal count of a range")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent verifications for a range (default 4)")
	cmd.Flags().StringVar(&opts.planFile, "plan", "", "validate a JSON plan file")
	cmd.MarkFlagsRequiredTogether("from", "to")
	cmd.MarkFlagsMutuallyExclusive("terminals", "from")
	cmd.MarkFlagsMutuallyExclusive("terminals", "plan")
	cmd.MarkFlagsMutuallyExclusive("from", "plan")

	return cmd
}

func (c *CLI) verifyOne(cmd *cobra.Command, n int) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	runner := c.newRunner(ctx, true)
	defer runner.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Verifying %d terminals...", n))
	spinner.Start()
	rep, err := runner.Verify(ctx, n)
	spinner.Stop()
	if err != nil {
		printError(w, "%d terminals: %s", n, apperr.UserMessage(err))
		return err
	}

	printSuccess(w, "%d terminals: %d connections verified", n, rep.Connections)
	printReport(w, rep)
	return nil
}

func (c *CLI) verifyRange(cmd *cobra.Command, opts verifyOpts) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	logger := loggerFromContext(ctx)
	runner := c.newRunner(ctx, true)
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Verifying %d..%d terminals...", opts.from, opts.to))
	spinner.Start()
	reports, err := runner.VerifyRange(ctx, opts.from, opts.to, opts.workers)
	spinner.Stop()
	if err != nil {
		printError(w, "%s", apperr.UserMessage(err))
		return err
	}

	total := 0
	for _, rep := range reports {
		total += rep.Connections
	}
	prog.done(fmt.Sprintf("Verified %d crossbars", len(reports)))
	printSuccess(w, "%d crossbars verified (n = %d..%d, %d connections)", len(reports), opts.from, opts.to, total)
	return nil
}

func (c *CLI) verifyFile(cmd *cobra.Command, path string) error {
	w := cmd.OutOrStdout()
	p, err := plan.ReadFile(path)
	if err != nil {
		printError(w, "%s: %s", path, apperr.UserMessage(err))
		return err
	}
	printSuccess(w, "%s: valid plan for %d terminals (%d wires)", path, p.Terminals, len(p.Wires))
	return nil
}

func printReport(w io.Writer, rep crossbar.Report) {
	printKeyNumber(w, "columns", rep.ColumnsUsed)
	printKeyNumber(w, "intra-block", rep.IntraBlock)
	printKeyNumber(w, "inter-block", rep.InterBlock)
	printKeyNumber(w, "max span", rep.MaxSpan)
	printKeyValue(w, "block gap", strconv.Itoa(rep.MaxBlockGap))
	if rep.MinSplit >= 0 {
		printKeyNumber(w, "split depth", rep.MinSplit)
	}
}
