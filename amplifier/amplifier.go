// Package amplifier chains copies of one Intcode program so that each copy's
// output is the next copy's input.
package amplifier

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/colorfulnotion/intcode/intcode"
	"github.com/colorfulnotion/intcode/log"
	"github.com/colorfulnotion/intcode/telemetry"
	"github.com/colorfulnotion/intcode/vmerrors"
)

// checkPhases rejects an empty chain and repeated phase settings.
func checkPhases(phases []int64) error {
	if len(phases) == 0 {
		return vmerrors.ErrNoAmplifier
	}
	seen := make(map[int64]struct{}, len(phases))
	for _, p := range phases {
		if _, ok := seen[p]; ok {
			return fmt.Errorf("phase %d repeated: %w", p, vmerrors.ErrBadPhase)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// RunSerial runs one amplifier per phase, in order. Each receives its phase
// and then the previous amplifier's first output; the first receives input.
func RunSerial(program []int64, phases []int64, input int64) (int64, error) {
	if err := checkPhases(phases); err != nil {
		return 0, err
	}
	signal := input
	for i, phase := range phases {
		c := intcode.New(program, []int64{phase, signal})
		c.SetIdentifier(fmt.Sprintf("amp-%d", i))
		out, _, err := c.RunUntilOutput(false, 1)
		if err != nil {
			return 0, fmt.Errorf("amplifier %d: %w", i, err)
		}
		if len(out) == 0 {
			return 0, fmt.Errorf("amplifier %d: %w", i, vmerrors.ErrNoSignal)
		}
		signal = out[0]
	}
	log.Debug(log.AmplifierMonitoring, "serial chain done", "phases", phases, "signal", signal)
	return signal, nil
}

// RunFeedback wires the last amplifier back into the first. The amplifiers
// keep their state between rounds and the loop ends once an amplifier halts
// without producing a signal. It returns the last value the final amplifier
// emitted.
func RunFeedback(program []int64, phases []int64, input int64) (int64, error) {
	if err := checkPhases(phases); err != nil {
		return 0, err
	}
	cores := make([]*intcode.Core, len(phases))
	for i, phase := range phases {
		cores[i] = intcode.New(program, []int64{phase})
		cores[i].SetIdentifier(fmt.Sprintf("amp-%d", i))
	}

	signal := input
	var (
		last   int64
		gotOne bool
		rounds int
	)
	for {
		for i, c := range cores {
			c.PushInput(signal)
			out, state, err := c.RunUntilOutput(true, 1)
			if err != nil {
				return 0, fmt.Errorf("amplifier %d round %d: %w", i, rounds, err)
			}
			if len(out) == 0 {
				if state == intcode.Halted && gotOne {
					log.Debug(log.AmplifierMonitoring, "feedback loop done", "phases", phases, "rounds", rounds, "signal", last)
					return last, nil
				}
				return 0, fmt.Errorf("amplifier %d round %d %s: %w", i, rounds, state, vmerrors.ErrNoSignal)
			}
			signal = out[0]
			if i == len(cores)-1 {
				last = signal
				gotOne = true
			}
		}
		rounds++
	}
}

// Result is the best signal found by a phase search.
type Result struct {
	Signal int64
	Phases []int64
}

// BestPhases tries every ordering of phases and returns the one producing the
// highest signal from input 0. Orderings are evaluated concurrently; among
// equal signals the lexicographically smallest ordering wins.
func BestPhases(ctx context.Context, program []int64, phases []int64, feedback bool) (Result, error) {
	if err := checkPhases(phases); err != nil {
		return Result{}, err
	}
	ctx, span := telemetry.Tracer().Start(ctx, fmt.Sprintf("[A%d] BestPhases", len(phases)))
	defer span.End()
	span.SetAttributes(attribute.Bool("feedback", feedback))

	run := RunSerial
	if feedback {
		run = RunFeedback
	}
	tele := telemetry.NewClient(fmt.Sprintf("amplifier-%d", len(phases)))
	orders := Permutations(phases)
	signals, err := evaluate(ctx, orders, func(order []int64) (int64, error) {
		signal, err := run(program, order, 0)
		if err == nil {
			tele.Emit(ctx, telemetry.EventAmplifierRun, map[string]any{"phases": order, "signal": signal}, attribute.Int64("signal", signal))
		}
		return signal, err
	})
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	best := Result{Signal: signals[0], Phases: orders[0]}
	for i := 1; i < len(orders); i++ {
		if signals[i] > best.Signal || (signals[i] == best.Signal && less(orders[i], best.Phases)) {
			best = Result{Signal: signals[i], Phases: orders[i]}
		}
	}
	span.SetAttributes(attribute.Int64("signal", best.Signal), attribute.Int("orderings", len(orders)))
	tele.Emit(ctx, telemetry.EventPhaseSearch, best, attribute.Int64("signal", best.Signal), attribute.Int("orderings", len(orders)))
	log.Info(log.AmplifierMonitoring, "phase search done", "feedback", feedback, "orderings", len(orders), "signal", best.Signal, "phases", best.Phases)
	return best, nil
}

func less(a, b []int64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
