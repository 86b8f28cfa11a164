package network

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/colorfulnotion/intcode/log"
	"github.com/colorfulnotion/intcode/telemetry"
	"github.com/colorfulnotion/intcode/vmerrors"
)

// Threaded runs every node on its own goroutine. A router goroutine routes
// packets into per-node mailboxes and detects idleness from node reports
// instead of counting passes, so the order of deliveries between nodes is not
// reproducible. Result.Passes counts node slices divided by the node count.
type Threaded struct{}

type eventKind uint8

const (
	evPacket eventKind = iota
	evIdle
	evHalted
)

type nodeEvent struct {
	kind eventKind
	addr int
	pkt  Packet
	gen  uint64
}

// mailbox holds values delivered to a node but not yet pushed to its core.
// gen grows with every delivery so stale idle reports can be told apart.
type mailbox struct {
	mu     sync.Mutex
	values []int64
	gen    uint64
	notify chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{notify: make(chan struct{}, 1)}
}

func (m *mailbox) put(values ...int64) {
	m.mu.Lock()
	m.values = append(m.values, values...)
	m.gen++
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *mailbox) take() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.values
	m.values = nil
	return v
}

// status returns the delivery generation and whether mail is waiting.
func (m *mailbox) status() (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen, len(m.values) > 0
}

func (m *mailbox) generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

func (Threaded) Run(ctx context.Context, n *Network, obs Observer) (res Result, err error) {
	if obs == nil {
		obs = Observe{}
	}
	ctx, span := telemetry.Tracer().Start(ctx, fmt.Sprintf("[N%d] Threaded", n.Size()))
	defer span.End()

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	events := make(chan nodeEvent, n.Size())
	boxes := make([]*mailbox, n.Size())
	for addr := range boxes {
		boxes[addr] = newMailbox()
	}
	for addr := range n.cores {
		g.Go(func() error {
			return n.runNode(gctx, addr, boxes[addr], events)
		})
	}
	defer func() {
		cancel()
		if werr := g.Wait(); err == nil && werr != nil && !errors.Is(werr, context.Canceled) {
			err = werr
		}
		if err != nil {
			span.RecordError(err)
		}
	}()

	idle := make([]bool, n.Size())
	halted := make([]bool, n.Size())
	deliver := func(p Packet) {
		boxes[p.Dest].put(payload(p)...)
		if !halted[p.Dest] {
			idle[p.Dest] = false
		}
	}

	slices := 0
	limit := n.cfg.MaxPasses * n.Size()
	for {
		var ev nodeEvent
		select {
		case <-gctx.Done():
			if cerr := ctx.Err(); cerr != nil {
				return res, cerr
			}
			// a node failed; its error is returned by g.Wait
			return res, nil
		case ev = <-events:
		}

		switch ev.kind {
		case evPacket:
			slices++
			idle[ev.addr] = false
			if n.route(ctx, ev.pkt, obs, &res) == routeDeliver {
				deliver(ev.pkt)
			}
		case evIdle:
			slices++
			if ev.gen == boxes[ev.addr].generation() {
				idle[ev.addr] = true
			}
		case evHalted:
			halted[ev.addr], idle[ev.addr] = true, true
		}
		res.Passes = slices / n.Size()
		if limit > 0 && slices > limit {
			return res, fmt.Errorf("%d slices on %d nodes: %w", slices, n.Size(), vmerrors.ErrPassLimit)
		}
		if !allTrue(idle) {
			continue
		}

		// A delivery to a halted node produces no event, so the idle
		// check is repeated here instead of waiting on the channel.
		for {
			p, done, ierr := n.onIdle(ctx, obs, &res)
			if ierr != nil {
				return res, ierr
			}
			if done {
				span.SetAttributes(attribute.Int("slices", slices), attribute.Int("packets", res.Packets))
				return res, nil
			}
			deliver(*p)
			if !halted[p.Dest] {
				break
			}
		}
	}
}

// runNode owns core addr for the lifetime of the simulation.
func (n *Network) runNode(ctx context.Context, addr int, box *mailbox, events chan<- nodeEvent) error {
	send := func(ev nodeEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	for {
		if mail := box.take(); len(mail) > 0 {
			n.cores[addr].PushInput(mail...)
		}
		p, sent, err := n.slice(ctx, addr)
		if err != nil {
			return err
		}
		if sent {
			if !send(nodeEvent{kind: evPacket, addr: addr, pkt: p}) {
				return nil
			}
			continue
		}
		if n.halted(addr) {
			send(nodeEvent{kind: evHalted, addr: addr})
			return nil
		}
		gen, pending := box.status()
		if pending {
			continue
		}
		if !send(nodeEvent{kind: evIdle, addr: addr, gen: gen}) {
			return nil
		}
		select {
		case <-box.notify:
		case <-ctx.Done():
			return nil
		}
		log.Trace(log.NetworkMonitoring, "node woken", "addr", addr)
	}
}

func allTrue(v []bool) bool {
	for _, b := range v {
		if !b {
			return false
		}
	}
	return true
}
