package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xbar/pkg/crossbar"
	"github.com/matzehuels/xbar/pkg/plan"
)

// topologyCommand prints the shape of a crossbar without generating wires.
func (c *CLI) topologyCommand() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:     "topology",
		Short:   "Show rows, blocks and columns for n terminals",
		Example: `  xbar topology -n 16`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			x, err := crossbar.New(n)
			if err != nil {
				return err
			}
			printTopology(cmd, plan.Summarize(x))
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "terminals", "n", 0, "number of terminals")
	_ = cmd.MarkFlagRequired("terminals")
	return cmd
}

func printTopology(cmd *cobra.Command, s plan.Summary) {
	w := cmd.OutOrStdout()
	printKeyNumber(w, "terminals", s.Terminals)
	printKeyNumber(w, "rows", s.Rows)
	printKeyNumber(w, "stages", s.Stages)
	printKeyNumber(w, "blocks", len(s.Blocks))
	printKeyNumber(w, "columns", s.Columns)
	printKeyNumber(w, "connections", s.Connections)
	if len(s.Blocks) == 0 {
		return
	}

	rows := make([][]string, len(s.Blocks))
	for i, b := range s.Blocks {
		rows[i] = []string{
			strconv.Itoa(b.Index),
			strconv.Itoa(b.Depth),
			sizedBy(b),
			strconv.Itoa(b.Start),
			strconv.Itoa(b.End),
		}
	}
	fmt.Fprintln(w)
	printTable(w, []string{"block", "depth", "sized by", "start", "end"}, rows)
}

// sizedBy renders the terminal range that fixes a block's length. The
// block's rows are stage-major and belong to every terminal.
func sizedBy(b plan.Block) string {
	if b.SizeTerminals <= 1 {
		return "t" + strconv.Itoa(b.SizeFrom)
	}
	return fmt.Sprintf("t%d-t%d", b.SizeFrom, b.SizeFrom+b.SizeTerminals-1)
}
