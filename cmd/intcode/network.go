package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/intcode/network"
)

func newNetworkCmd(g *globals) *cobra.Command {
	var (
		nodes     int
		scheduler string
		maxPasses int
		tracePath string
		quiet     bool
	)
	cmd := &cobra.Command{
		Use:   "network <program>",
		Short: "Simulate a packet network of cores running the same program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			words, err := readProgram(args[0])
			if err != nil {
				return err
			}
			cfg := g.cfg.NetworkConfig()
			name := g.cfg.Network.Scheduler
			flags := cmd.Flags()
			if flags.Changed("nodes") {
				cfg.Nodes = nodes
			}
			if flags.Changed("max-passes") {
				cfg.MaxPasses = maxPasses
			}
			if flags.Changed("scheduler") {
				name = scheduler
			}
			sched, err := network.NewScheduler(name)
			if err != nil {
				return err
			}
			n, err := network.New(words, cfg)
			if err != nil {
				return err
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
				n.WithTrace(tw)
			}

			out := cmd.OutOrStdout()
			obs := network.Observe{
				OnFirstGateway: func(p network.Packet) {
					fmt.Fprintf(out, "first gateway packet: x=%d y=%d\n", p.X, p.Y)
				},
				OnDelivery: func(p network.Packet) {
					if !quiet {
						fmt.Fprintf(out, "gateway delivery: x=%d y=%d\n", p.X, p.Y)
					}
				},
				OnSteadyState: func(p network.Packet) {
					fmt.Fprintf(out, "steady state: y=%d\n", p.Y)
				},
			}
			res, err := sched.Run(cmd.Context(), n, obs)
			fmt.Fprint(out, res.ToTree().String())
			return err
		},
	}
	f := cmd.Flags()
	f.IntVar(&nodes, "nodes", network.DefaultNodes, "Number of nodes")
	f.StringVar(&scheduler, "scheduler", "roundrobin", "Scheduler: roundrobin or threaded")
	f.IntVar(&maxPasses, "max-passes", network.DefaultMaxPasses, "Give up after this many passes (0 = no limit)")
	f.StringVar(&tracePath, "trace", "", "Write a JSONL execution trace of every node to this file")
	f.BoolVarP(&quiet, "quiet", "q", false, "Do not print every gateway delivery")
	return cmd
}
