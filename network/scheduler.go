package network

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/colorfulnotion/intcode/log"
	"github.com/colorfulnotion/intcode/telemetry"
	"github.com/colorfulnotion/intcode/vmerrors"
)

// Scheduler drives a Network until it reaches the steady state or fails.
// Both implementations share the routing and NAT policy of Network.
type Scheduler interface {
	Run(ctx context.Context, n *Network, obs Observer) (Result, error)
}

// NewScheduler returns the scheduler registered under name.
func NewScheduler(name string) (Scheduler, error) {
	switch name {
	case "", "roundrobin":
		return RoundRobin{}, nil
	case "threaded":
		return Threaded{}, nil
	}
	return nil, fmt.Errorf("unknown scheduler %q", name)
}

// RoundRobin gives every node one slice per pass in address order and routes
// the pass's packets once it is complete. Runs are fully reproducible.
type RoundRobin struct{}

func (RoundRobin) Run(ctx context.Context, n *Network, obs Observer) (Result, error) {
	if obs == nil {
		obs = Observe{}
	}
	ctx, span := telemetry.Tracer().Start(ctx, fmt.Sprintf("[N%d] RoundRobin", n.Size()))
	defer span.End()

	var res Result
	outbox := make([]Packet, 0, n.Size())
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if n.cfg.MaxPasses > 0 && res.Passes >= n.cfg.MaxPasses {
			err := fmt.Errorf("%d passes: %w", res.Passes, vmerrors.ErrPassLimit)
			span.RecordError(err)
			return res, err
		}
		res.Passes++

		outbox = outbox[:0]
		for addr := range n.cores {
			p, sent, err := n.slice(ctx, addr)
			if err != nil {
				span.RecordError(err)
				return res, err
			}
			if sent {
				outbox = append(outbox, p)
			}
		}

		traffic := 0
		for _, p := range outbox {
			switch n.route(ctx, p, obs, &res) {
			case routeDeliver:
				n.cores[p.Dest].PushInput(payload(p)...)
				traffic++
			case routeGateway:
				traffic++
			}
		}
		if traffic > 0 || !n.allDrained() {
			continue
		}

		deliver, done, err := n.onIdle(ctx, obs, &res)
		if err != nil {
			span.RecordError(err)
			return res, err
		}
		if done {
			span.SetAttributes(attribute.Int("passes", res.Passes), attribute.Int("packets", res.Packets))
			return res, nil
		}
		n.cores[deliver.Dest].PushInput(payload(*deliver)...)
		log.Trace(log.NetworkMonitoring, "idle pass", "pass", res.Passes)
	}
}

func (n *Network) allDrained() bool {
	for addr := range n.cores {
		if !n.drained(addr) {
			return false
		}
	}
	return true
}
