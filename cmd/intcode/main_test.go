package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProgram(t *testing.T, listing string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.txt")
	require.NoError(t, os.WriteFile(path, []byte(listing+"\n"), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&globals{})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	quine := "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"
	out, err := execute(t, "run", writeProgram(t, quine))
	require.NoError(t, err)
	assert.Equal(t, strings.ReplaceAll(quine, ",", "\n")+"\n", out)

	out, err = execute(t, "run", writeProgram(t, "3,0,4,0,99"), "--input", "42")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)

	out, err = execute(t, "run", writeProgram(t, "1,0,0,0,99"), "--dump")
	require.NoError(t, err)
	assert.Equal(t, "2,0,0,0,99\n", out)

	out, err = execute(t, "run", writeProgram(t, "1,9,10,3,2,3,11,0,99,30,40,50"), "--poke", "1=10", "--poke", "2=10", "--dump")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "4000,"), out)

	_, err = execute(t, "run", writeProgram(t, "3,-1,99"), "--input", "1")
	assert.Error(t, err)
}

func TestRunTrace(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "steps.jsonl")
	_, err := execute(t, "run", writeProgram(t, "1,0,0,0,99"), "--trace", tracePath)
	require.NoError(t, err)
	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 2)

	out, err := execute(t, "trace", tracePath)
	require.NoError(t, err)
	assert.Equal(t, "ADD 1 0 RB: 0 W 0=2 running\nHALT 2 4 RB: 0 halted\n", out)
}

func TestTraceFlushErrorReported(t *testing.T) {
	// writes to /dev/full fail with ENOSPC once the buffer is flushed
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	_, err := execute(t, "run", writeProgram(t, "1,0,0,0,99"), "--trace", "/dev/full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing trace")

	_, err = execute(t, "network", writeProgram(t, "3,100,104,255,104,3,104,4,99"), "--nodes", "1", "--trace", "/dev/full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing trace")
}

func TestDisasmCommand(t *testing.T) {
	path := writeProgram(t, "1002,4,3,4,33")
	out, err := execute(t, "disasm", path)
	require.NoError(t, err)
	assert.Contains(t, out, "MUL [4], #3 -> [4]")
	assert.Contains(t, out, "DATA 33")

	out, err = execute(t, "disasm", writeProgram(t, "1105,1,4,99,104,1,99"), "--tree")
	require.NoError(t, err)
	assert.Contains(t, out, "block @0")
	assert.Contains(t, out, "block @3")
	assert.Contains(t, out, "block @4")
}

func TestAmplifyCommand(t *testing.T) {
	path := writeProgram(t, "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0")
	out, err := execute(t, "amplify", path, "--phases", "4,3,2,1,0")
	require.NoError(t, err)
	assert.Equal(t, "43210\n", out)

	out, err = execute(t, "amplify", path, "--search")
	require.NoError(t, err)
	assert.Equal(t, "signal 43210 with phases [4 3 2 1 0]\n", out)
}

func TestNetworkCommand(t *testing.T) {
	path := writeProgram(t, "3,100,104,255,104,3,104,4,3,101,1105,1,8")
	out, err := execute(t, "network", path, "--nodes", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "first gateway packet: x=3 y=4")
	assert.Contains(t, out, "gateway delivery: x=3 y=4")
	assert.Contains(t, out, "steady state: y=4")
	assert.Contains(t, out, "packets: 3")

	_, err = execute(t, "network", path, "--scheduler", "fifo")
	assert.Error(t, err)
}

func TestTelemetryLog(t *testing.T) {
	path := writeProgram(t, "3,100,104,255,104,3,104,4,99")
	events := filepath.Join(t.TempDir(), "events.jsonl")
	_, err := execute(t, "network", path, "--nodes", "2", "--telemetry-log", events, "--log-json")
	require.NoError(t, err)

	data, err := os.ReadFile(events)
	require.NoError(t, err)
	text := string(data)
	assert.Equal(t, 2, strings.Count(text, `"metadata":"packet_sent"`))
	assert.Equal(t, 2, strings.Count(text, `"metadata":"node_halted"`))
	assert.Equal(t, 1, strings.Count(text, `"metadata":"first_gateway"`))
	assert.Equal(t, 1, strings.Count(text, `"metadata":"steady_state"`))
	assert.Contains(t, text, `"sender_id":"gateway-255"`)

	_, err = execute(t, "run", path, "--telemetry-log", filepath.Join(t.TempDir(), "missing", "events.jsonl"))
	assert.Error(t, err)
}

func TestScriptCommand(t *testing.T) {
	prog := writeProgram(t, "3,0,4,0,99")
	script := filepath.Join(t.TempDir(), "drive.js")
	require.NoError(t, os.WriteFile(script, []byte("ic.input(9); var out = ic.run(); out[0] * 2"), 0o644))
	out, err := execute(t, "script", prog, script)
	require.NoError(t, err)
	assert.Equal(t, "18\n", out)
}
