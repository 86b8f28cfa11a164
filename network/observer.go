package network

import (
	"context"
	"sync"
)

// Observer receives network events. Schedulers call it from a single
// goroutine at a time.
type Observer interface {
	PacketSent(p Packet)
	FirstGatewayPacket(p Packet)
	GatewayDelivery(p Packet)
	SteadyState(p Packet)
}

// Observe adapts optional funcs to an Observer.
type Observe struct {
	OnPacket       func(Packet)
	OnFirstGateway func(Packet)
	OnDelivery     func(Packet)
	OnSteadyState  func(Packet)
}

func (o Observe) PacketSent(p Packet) {
	if o.OnPacket != nil {
		o.OnPacket(p)
	}
}

func (o Observe) FirstGatewayPacket(p Packet) {
	if o.OnFirstGateway != nil {
		o.OnFirstGateway(p)
	}
}

func (o Observe) GatewayDelivery(p Packet) {
	if o.OnDelivery != nil {
		o.OnDelivery(p)
	}
}

func (o Observe) SteadyState(p Packet) {
	if o.OnSteadyState != nil {
		o.OnSteadyState(p)
	}
}

// Recorder is an Observer that keeps every event.
type Recorder struct {
	mu         sync.Mutex
	Sent       []Packet
	First      *Packet
	Deliveries []Packet
	Steady     *Packet
}

func (r *Recorder) PacketSent(p Packet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, p)
}

func (r *Recorder) FirstGatewayPacket(p Packet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.First = &p
}

func (r *Recorder) GatewayDelivery(p Packet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deliveries = append(r.Deliveries, p)
}

func (r *Recorder) SteadyState(p Packet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steady = &p
}

// Simulate runs program on nodes cores with the deterministic scheduler and
// the default gateway until the steady state is reached.
func Simulate(ctx context.Context, program []int64, nodes int) (*Recorder, Result, error) {
	n, err := New(program, DefaultConfig(nodes))
	if err != nil {
		return nil, Result{}, err
	}
	rec := &Recorder{}
	res, err := RoundRobin{}.Run(ctx, n, rec)
	return rec, res, err
}
