package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/colorfulnotion/intcode/intcode/program"
)

func newDisasmCmd(g *globals) *cobra.Command {
	var asTree bool
	cmd := &cobra.Command{
		Use:   "disasm <program>",
		Short: "Disassemble a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := readProgram(args[0])
			if err != nil {
				return err
			}
			lines := program.Disassemble(words)
			if asTree {
				fmt.Fprint(cmd.OutOrStdout(), blockTree(args[0], lines).String())
				return nil
			}
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asTree, "tree", false, "Group instructions into blocks ending at jumps and halts")
	return cmd
}

// blockTree groups lines into straight-line blocks. A block ends after a jump
// or a halt.
func blockTree(name string, lines []program.Line) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("%s (%d lines)", name, len(lines)))
	var block treeprint.Tree
	for _, l := range lines {
		if block == nil {
			block = tree.AddBranch(fmt.Sprintf("block @%d", l.Addr))
		}
		block.AddNode(l.String())
		if l.Data {
			continue
		}
		if ins, err := program.Decode(l.Words[0]); err == nil && (ins.Opcode.IsJump() || ins.Opcode == program.HALT) {
			block = nil
		}
	}
	return tree
}
