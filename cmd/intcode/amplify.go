package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/intcode/amplifier"
)

func newAmplifyCmd(g *globals) *cobra.Command {
	var (
		phases   string
		feedback bool
		search   bool
		input    int64
	)
	cmd := &cobra.Command{
		Use:   "amplify <program>",
		Short: "Run a chain of amplifiers, optionally searching for the best phase order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := readProgram(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("phases") && feedback {
				phases = "5,6,7,8,9"
			}
			settings, err := parseValues(phases)
			if err != nil {
				return fmt.Errorf("--phases: %w", err)
			}
			out := cmd.OutOrStdout()
			if search {
				best, err := amplifier.BestPhases(cmd.Context(), words, settings, feedback)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "signal %d with phases %v\n", best.Signal, best.Phases)
				return nil
			}
			run := amplifier.RunSerial
			if feedback {
				run = amplifier.RunFeedback
			}
			signal, err := run(words, settings, input)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, signal)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&phases, "phases", "0,1,2,3,4", "Comma separated phase settings, one per amplifier")
	f.BoolVar(&feedback, "feedback", false, "Loop the last amplifier back into the first")
	f.BoolVar(&search, "search", false, "Try every order of the phases and report the best")
	f.Int64Var(&input, "input", 0, "Signal fed to the first amplifier")
	return cmd
}
