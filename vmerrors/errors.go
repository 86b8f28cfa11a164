package vmerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Machine (M) Errors
var (
	ErrNegativeAddress  = errors.New("M1|AddressError: Memory access at a negative address.")
	ErrBadParameterMode = errors.New("M2|DecodeError: Parameter mode digit is not 0, 1 or 2.")
	ErrInvalidOpcode    = errors.New("M3|InvalidOpcodeError: Opcode is not part of the instruction set.")
	ErrMachineHalted    = errors.New("M4|MachineHalted: Step requested on a machine that already halted.")
	ErrAddressTooLarge  = errors.New("M5|AddressError: Memory write beyond the largest addressable word.")
)

// Program listing (P) Errors
var (
	ErrBadListing   = errors.New("P1|BadListing: Program listing field is not a signed decimal integer.")
	ErrEmptyProgram = errors.New("P2|EmptyProgram: Program listing contains no words.")
)

// Network (N) Errors
var (
	ErrBadNetworkSize = errors.New("N1|BadNetworkSize: Node count must be between 1 and the gateway address.")
	ErrPassLimit      = errors.New("N2|PassLimit: Simulation exceeded its scheduling pass budget.")
	ErrNetworkStalled = errors.New("N3|NetworkStalled: Network is idle and no gateway packet was recorded.")
	ErrNodeFault      = errors.New("N4|NodeFault: A node machine failed and the simulation was aborted.")
)

// Amplifier (A) Errors
var (
	ErrBadPhase    = errors.New("A1|BadPhase: Phase settings must be distinct.")
	ErrNoAmplifier = errors.New("A2|NoAmplifier: Amplifier chain needs at least one phase.")
	ErrNoSignal    = errors.New("A3|NoSignal: Amplifier halted without emitting a signal.")
)

// Fault is a fatal machine error together with the machine position it was raised at.
type Fault struct {
	Err  error
	IP   int64
	Word int64
	Addr int64
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s (ip=%d word=%d addr=%d)", f.Err.Error(), f.IP, f.Word, f.Addr)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// IsFatal reports whether err terminates the machine that produced it.
func IsFatal(err error) bool {
	switch {
	case errors.Is(err, ErrNegativeAddress), errors.Is(err, ErrAddressTooLarge):
		return true
	case errors.Is(err, ErrBadParameterMode), errors.Is(err, ErrInvalidOpcode):
		return true
	}
	return false
}

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return "No Error"
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "|") || !strings.Contains(errStr, ":") {
		return errStr
	}
	parts := strings.SplitN(errStr, "|", 2)
	if len(parts) < 2 {
		return errStr
	}
	nameDesc := parts[1]
	// Split on ':' to separate the error name from its description.
	nameParts := strings.SplitN(nameDesc, ":", 2)
	return strings.TrimSpace(nameParts[0])
}

func GetErrorNames(errs []error) []string {
	errStrs := make([]string, len(errs))
	for i, err := range errs {
		errStrs[i] = GetErrorName(err)
	}
	return errStrs
}

// GetErrorCode extracts the error code from the error message.
func GetErrorCode(err error) string {
	if err == nil {
		return ""
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "|") {
		return ""
	}
	parts := strings.SplitN(errStr, "|", 2)
	return strings.TrimSpace(parts[0])
}

// GetErrorCodeWithName returns the error code and name in the format "Code_ErrorName".
func GetErrorCodeWithName(err error) string {
	code := GetErrorCode(err)
	name := GetErrorName(err)
	if code == "" || name == "" {
		return ""
	}
	return code + "_" + name
}

// GetErrorDesc extracts the error description from the error message.
func GetErrorDesc(err error) string {
	if err == nil {
		return ""
	}
	errStr := err.Error()
	parts := strings.SplitN(errStr, ":", 2)
	if len(parts) < 2 {
		return "DESC NOT SET"
	}
	return strings.TrimSpace(parts[1])
}
