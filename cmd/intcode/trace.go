package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/intcode/intcode/trace"
)

func newTraceCmd(g *globals) *cobra.Command {
	var (
		node   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "trace <trace.jsonl>",
		Short: "Convert a JSONL execution trace to a text log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				of, err := os.Create(output)
				if err != nil {
					return err
				}
				defer of.Close()
				w = of
			}
			bw := bufio.NewWriter(w)
			defer bw.Flush()

			n := 0
			err = trace.ReadJSONL(f, func(s *trace.Step) error {
				if node != "" && s.Node != node {
					return nil
				}
				n++
				_, err := fmt.Fprintln(bw, s.LogLine())
				return err
			})
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Written: %s (%d steps)\n", output, n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&node, "node", "", "Only keep steps of this node, e.g. node-3")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the log to this file instead of stdout")
	return cmd
}
