// Package network connects Intcode cores into a packet network. Every core
// gets an address, output triples (dest, x, y) are routed to the destination
// core's input, and packets sent to the gateway address are held by a NAT
// that wakes node 0 whenever the whole network goes idle.
package network

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/colorfulnotion/intcode/intcode"
	"github.com/colorfulnotion/intcode/intcode/trace"
	"github.com/colorfulnotion/intcode/log"
	"github.com/colorfulnotion/intcode/telemetry"
	"github.com/colorfulnotion/intcode/vmerrors"
)

const (
	DefaultNodes     = 50
	DefaultGateway   = 255
	DefaultMaxPasses = 1_000_000

	// NoPacket is read by a node whose queue holds no packet.
	NoPacket int64 = -1
)

// Packet is one routed output triple.
type Packet struct {
	Src  int   `json:"src"`
	Dest int64 `json:"dest"`
	X    int64 `json:"x"`
	Y    int64 `json:"y"`
}

func (p Packet) String() string {
	return fmt.Sprintf("%d->%d (%d,%d)", p.Src, p.Dest, p.X, p.Y)
}

// Config sizes a network. MaxPasses of 0 means no limit.
type Config struct {
	Nodes     int
	Gateway   int
	MaxPasses int
}

func DefaultConfig(nodes int) Config {
	return Config{Nodes: nodes, Gateway: DefaultGateway, MaxPasses: DefaultMaxPasses}
}

func (c Config) validate() error {
	if c.Gateway <= 0 || c.Nodes < 1 || c.Nodes > c.Gateway {
		return fmt.Errorf("%d nodes with gateway %d: %w", c.Nodes, c.Gateway, vmerrors.ErrBadNetworkSize)
	}
	if c.MaxPasses < 0 {
		return fmt.Errorf("max passes %d: %w", c.MaxPasses, vmerrors.ErrBadNetworkSize)
	}
	return nil
}

type routing uint8

const (
	routeDeliver routing = iota
	routeGateway
	routeDropped
)

// Network owns the cores and the NAT state. It is driven by a Scheduler.
type Network struct {
	cfg     Config
	cores   []*intcode.Core
	partial [][]int64

	nat       *Packet
	delivered bool
	lastY     int64

	tele *telemetry.Client
}

// New builds cfg.Nodes cores from program, each starting with its address
// followed by NoPacket.
func New(program []int64, cfg Config) (*Network, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(program) == 0 {
		return nil, vmerrors.ErrEmptyProgram
	}
	n := &Network{
		cfg:     cfg,
		cores:   make([]*intcode.Core, cfg.Nodes),
		partial: make([][]int64, cfg.Nodes),
		tele:    telemetry.NewClient(fmt.Sprintf("gateway-%d", cfg.Gateway)),
	}
	for addr := range n.cores {
		c := intcode.New(program, []int64{int64(addr), NoPacket})
		c.SetIdentifier(fmt.Sprintf("node-%d", addr))
		n.cores[addr] = c
		n.partial[addr] = make([]int64, 0, 3)
	}
	return n, nil
}

// WithTrace records every node's execution into w.
func (n *Network) WithTrace(w trace.Writer) *Network {
	for _, c := range n.cores {
		c.WithTrace(w)
	}
	return n
}

// WithTelemetry replaces the telemetry client; nil disables telemetry.
func (n *Network) WithTelemetry(c *telemetry.Client) *Network {
	if c == nil {
		c = telemetry.NewNoOpClient()
	}
	n.tele = c
	return n
}

func (n *Network) Size() int      { return len(n.cores) }
func (n *Network) Config() Config { return n.cfg }
func (n *Network) NAT() *Packet   { return n.nat }
func (n *Network) Node(addr int) *intcode.Core {
	if addr < 0 || addr >= len(n.cores) {
		return nil
	}
	return n.cores[addr]
}

// slice runs node addr until it blocks on input, halts or completes a packet.
// Only the goroutine that owns addr may call it.
func (n *Network) slice(ctx context.Context, addr int) (Packet, bool, error) {
	c := n.cores[addr]
	if c.State() == intcode.Halted {
		return Packet{}, false, nil
	}
	var (
		pkt  Packet
		sent bool
	)
	_, err := c.Run(true, func(v int64) intcode.Action {
		buf := append(n.partial[addr], v)
		if len(buf) < 3 {
			n.partial[addr] = buf
			return intcode.Continue()
		}
		pkt = Packet{Src: addr, Dest: buf[0], X: buf[1], Y: buf[2]}
		n.partial[addr] = buf[:0]
		sent = true
		return intcode.Stop()
	})
	if err != nil {
		n.tele.Emit(ctx, telemetry.EventNodeFault, map[string]any{"addr": addr, "error": err.Error()}, attribute.Int("addr", addr))
		return Packet{}, false, fmt.Errorf("node %d: %w: %w", addr, vmerrors.ErrNodeFault, err)
	}
	if c.State() == intcode.Halted {
		n.tele.Emit(ctx, telemetry.EventNodeHalted, map[string]any{"addr": addr, "steps": c.Steps()}, attribute.Int("addr", addr))
		log.Debug(log.NetworkMonitoring, "node halted", "addr", addr, "steps", c.Steps())
	}
	return pkt, sent, nil
}

// halted reports whether node addr can never run again.
func (n *Network) halted(addr int) bool {
	return n.cores[addr].State() == intcode.Halted
}

// drained reports whether node addr has nothing left to read but NoPacket.
// Halted nodes count as drained.
func (n *Network) drained(addr int) bool {
	c := n.cores[addr]
	return c.State() == intcode.Halted || c.Input().DrainedTo(NoPacket)
}

// route classifies p, records gateway packets and notifies obs.
func (n *Network) route(ctx context.Context, p Packet, obs Observer, res *Result) routing {
	switch {
	case p.Dest == int64(n.cfg.Gateway):
		res.Packets++
		obs.PacketSent(p)
		n.tele.Emit(ctx, telemetry.EventPacketSent, p)
		q := p
		n.nat = &q
		if res.FirstGateway == nil {
			first := p
			res.FirstGateway = &first
			obs.FirstGatewayPacket(p)
			n.tele.Emit(ctx, telemetry.EventFirstGateway, p, attribute.Int64("y", p.Y))
			log.Info(log.NetworkMonitoring, "first gateway packet", "src", p.Src, "x", p.X, "y", p.Y)
		}
		return routeGateway
	case p.Dest >= 0 && p.Dest < int64(len(n.cores)):
		res.Packets++
		obs.PacketSent(p)
		n.tele.Emit(ctx, telemetry.EventPacketSent, p)
		log.Trace(log.NetworkMonitoring, "packet", "src", p.Src, "dest", p.Dest, "x", p.X, "y", p.Y)
		return routeDeliver
	default:
		res.Dropped++
		n.tele.Emit(ctx, telemetry.EventPacketDropped, p)
		log.Warn(log.NetworkMonitoring, "packet to unknown address dropped", "src", p.Src, "dest", p.Dest)
		return routeDropped
	}
}

// onIdle applies the NAT policy once the network is idle. It returns the
// packet to deliver to node 0, or done once the same y would be delivered
// twice in a row.
func (n *Network) onIdle(ctx context.Context, obs Observer, res *Result) (deliver *Packet, done bool, err error) {
	res.IdlePasses++
	n.tele.Emit(ctx, telemetry.EventIdlePass, map[string]int{"pass": res.Passes})
	if n.nat == nil {
		return nil, false, fmt.Errorf("idle after %d passes: %w", res.Passes, vmerrors.ErrNetworkStalled)
	}
	p := *n.nat
	if n.delivered && p.Y == n.lastY {
		res.SteadyState = &p
		obs.SteadyState(p)
		n.tele.Emit(ctx, telemetry.EventSteadyState, p, attribute.Int64("y", p.Y))
		log.Info(log.NetworkMonitoring, "steady state", "y", p.Y, "passes", res.Passes, "deliveries", res.Deliveries)
		return nil, true, nil
	}
	n.delivered, n.lastY = true, p.Y
	res.Deliveries++
	obs.GatewayDelivery(p)
	n.tele.Emit(ctx, telemetry.EventGatewayDelivery, p, attribute.Int64("y", p.Y))
	log.Debug(log.NetworkMonitoring, "gateway delivery", "x", p.X, "y", p.Y, "pass", res.Passes)
	return &Packet{Src: n.cfg.Gateway, Dest: 0, X: p.X, Y: p.Y}, false, nil
}

// payload is what a delivered packet appends to the destination queue.
func payload(p Packet) []int64 {
	return []int64{p.X, p.Y, NoPacket}
}
