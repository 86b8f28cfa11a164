package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/intcode/console"
	"github.com/colorfulnotion/intcode/intcode"
)

func newConsoleCmd(g *globals) *cobra.Command {
	var history string
	cmd := &cobra.Command{
		Use:   "console <program>",
		Short: "Talk to an ASCII program; lines starting with ! are JavaScript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := readProgram(args[0])
			if err != nil {
				return err
			}
			host, err := console.NewHost(intcode.New(words, nil), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			rl, err := console.NewReadline(history)
			if err != nil {
				return fmt.Errorf("failed to start readline: %w", err)
			}
			defer rl.Close()
			return host.Serve(rl)
		},
	}
	cmd.Flags().StringVar(&history, "history", filepath.Join(os.TempDir(), "intcode_console_history.txt"), "Readline history file")
	return cmd
}

func newScriptCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "script <program> <script.js>",
		Short: "Drive a program with a JavaScript file that uses the ic object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := readProgram(args[0])
			if err != nil {
				return err
			}
			src, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			host, err := console.NewHost(intcode.New(words, nil), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			value, err := host.Eval(string(src))
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}
