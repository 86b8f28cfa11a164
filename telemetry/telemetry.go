package telemetry

// Telemetry event discriminators. The same code is used as the msg_type of
// the structured log line and, through EventName, as the span event name.
const (
	// Network traffic (10-19)
	Telemetry_Packet_Sent    = 10
	Telemetry_Packet_Dropped = 11
	Telemetry_Idle_Pass      = 12

	// Gateway events (20-29)
	Telemetry_First_Gateway    = 20
	Telemetry_Gateway_Delivery = 21
	Telemetry_Steady_State     = 22

	// Machine events (30-39)
	Telemetry_Node_Fault  = 30
	Telemetry_Node_Halted = 31

	// Amplifier events (40-49)
	Telemetry_Amplifier_Run = 40
	Telemetry_Phase_Search  = 41
)

// Short aliases used by the network and amplifier packages.
const (
	EventPacketSent      = Telemetry_Packet_Sent
	EventFirstGateway    = Telemetry_First_Gateway
	EventGatewayDelivery = Telemetry_Gateway_Delivery
	EventSteadyState     = Telemetry_Steady_State
	EventIdlePass        = Telemetry_Idle_Pass
	EventPacketDropped   = Telemetry_Packet_Dropped
	EventNodeFault       = Telemetry_Node_Fault
	EventNodeHalted      = Telemetry_Node_Halted
	EventAmplifierRun    = Telemetry_Amplifier_Run
	EventPhaseSearch     = Telemetry_Phase_Search
)

var eventNames = map[uint8]string{
	Telemetry_Packet_Sent:      "packet_sent",
	Telemetry_Packet_Dropped:   "packet_dropped",
	Telemetry_Idle_Pass:        "idle_pass",
	Telemetry_First_Gateway:    "first_gateway",
	Telemetry_Gateway_Delivery: "gateway_delivery",
	Telemetry_Steady_State:     "steady_state",
	Telemetry_Node_Fault:       "node_fault",
	Telemetry_Node_Halted:      "node_halted",
	Telemetry_Amplifier_Run:    "amplifier_run",
	Telemetry_Phase_Search:     "phase_search",
}

// EventName returns the span event name for a discriminator.
func EventName(code uint8) string {
	if name, ok := eventNames[code]; ok {
		return name
	}
	return "unknown"
}
