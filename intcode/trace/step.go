package trace

// Write is the memory store performed by an instruction.
type Write struct {
	Addr  int64 `json:"addr"`
	Value int64 `json:"value"`
}

type Step struct {
	Step         uint64  `json:"step"`
	Node         string  `json:"node,omitempty"`
	IP           int64   `json:"ip"`
	Word         int64   `json:"word"`
	Opcode       int64   `json:"opcode"`
	Mnemonic     string  `json:"mnemonic"`
	Params       []int64 `json:"params,omitempty"`
	Modes        []uint8 `json:"modes,omitempty"`
	Wrote        *Write  `json:"wrote,omitempty"`
	Output       *int64  `json:"output,omitempty"`
	Input        *int64  `json:"input,omitempty"`
	RelativeBase int64   `json:"relativeBase"`
	PostState    string  `json:"postState"`
}

func (s *Step) SetWrite(addr, value int64) {
	s.Wrote = &Write{Addr: addr, Value: value}
}

func (s *Step) SetOutput(v int64) {
	s.Output = &v
}

func (s *Step) SetInput(v int64) {
	s.Input = &v
}

// Recorder keeps steps in memory. Not safe for concurrent use.
type Recorder struct {
	Steps []Step
}

func (r *Recorder) WriteStep(step *Step) error {
	r.Steps = append(r.Steps, *step)
	return nil
}
