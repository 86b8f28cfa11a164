package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/intcode/intcode"
	"github.com/colorfulnotion/intcode/intcode/ascii"
	"github.com/colorfulnotion/intcode/intcode/program"
)

func newRunCmd(g *globals) *cobra.Command {
	var (
		input     string
		lines     []string
		suspend   bool
		asASCII   bool
		tracePath string
		dump      bool
		patches   []string
	)
	cmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Run a program to completion and print its output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			words, err := readProgram(args[0])
			if err != nil {
				return err
			}
			inputs, err := parseValues(input)
			if err != nil {
				return fmt.Errorf("--input: %w", err)
			}
			if len(lines) > 0 {
				inputs = append(inputs, ascii.EncodeLines(lines...)...)
			}
			core := intcode.New(words, inputs)
			for _, p := range patches {
				var addr, value int64
				if _, err := fmt.Sscanf(p, "%d=%d", &addr, &value); err != nil {
					return fmt.Errorf("--poke %q: want addr=value", p)
				}
				if err := core.Poke(addr, value); err != nil {
					return err
				}
			}
			tw, err := g.openTrace(tracePath)
			if err != nil {
				return err
			}
			if tw != nil {
				defer func() {
					if cerr := tw.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("closing trace: %w", cerr)
					}
				}()
				core.WithTrace(tw)
			}

			out := cmd.OutOrStdout()
			var dec ascii.Decoder
			state, err := core.Run(suspend, func(v int64) intcode.Action {
				if asASCII {
					dec.Write(v)
				} else {
					fmt.Fprintln(out, v)
				}
				return intcode.Continue()
			})
			if asASCII {
				fmt.Fprint(out, dec.Text())
				for _, r := range dec.Results() {
					fmt.Fprintln(out, r)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s after %d steps\n", state, core.Steps())
			if dump {
				fmt.Fprintln(out, program.Format(core.Memory().Snapshot()))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&input, "input", "", "Comma separated input values")
	f.StringArrayVar(&lines, "line", nil, "ASCII input line, may be repeated")
	f.BoolVar(&suspend, "suspend", false, "Stop when input runs out instead of repeating the last value")
	f.BoolVar(&asASCII, "ascii", false, "Decode output as ASCII text")
	f.StringVar(&tracePath, "trace", "", "Write a JSONL execution trace to this file")
	f.BoolVar(&dump, "dump", false, "Print the final memory as a listing")
	f.StringArrayVar(&patches, "poke", nil, "Patch memory before running, as addr=value")
	return cmd
}
