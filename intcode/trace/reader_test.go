package trace

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONL(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLWriter(&buf)
	in := &Step{Step: 1, Node: "node-1", IP: 0, Mnemonic: "IN", PostState: "running"}
	in.SetInput(-1)
	in.SetWrite(100, -1)
	out := &Step{Step: 2, IP: 2, Mnemonic: "OUT", RelativeBase: 5, PostState: "running"}
	out.SetOutput(7)
	require.NoError(t, w.WriteStep(in))
	require.NoError(t, w.WriteStep(out))
	require.NoError(t, w.Flush())
	buf.WriteString("\n")

	var lines []string
	require.NoError(t, ReadJSONL(&buf, func(s *Step) error {
		lines = append(lines, s.LogLine())
		return nil
	}))
	assert.Equal(t, []string{
		"IN 1 0 RB: 0 [node-1] W 100=-1 IN -1 running",
		"OUT 2 2 RB: 5 OUT 7 running",
	}, lines)
}

func TestReadJSONLErrors(t *testing.T) {
	err := ReadJSONL(strings.NewReader("{\"step\":1}\nnot json\n"), func(*Step) error { return nil })
	assert.ErrorContains(t, err, "line 2")

	stop := errors.New("stop")
	err = ReadJSONL(strings.NewReader("{\"step\":1}\n{\"step\":2}\n"), func(*Step) error { return stop })
	assert.ErrorIs(t, err, stop)
}
