package program

import (
	"fmt"
	"strings"
)

// Line is one disassembled instruction, or a single data word that does not decode.
type Line struct {
	Addr  int64
	Words []int64
	Text  string
	Data  bool
}

func (l Line) String() string {
	raw := make([]string, len(l.Words))
	for i, w := range l.Words {
		raw[i] = fmt.Sprint(w)
	}
	return fmt.Sprintf("%6d: %-28s %s", l.Addr, strings.Join(raw, ","), l.Text)
}

// FormatOperand renders a single parameter in assembler notation:
// position [p], immediate #p, relative rb+p.
func FormatOperand(m Mode, p int64) string {
	switch m {
	case Immediate:
		return fmt.Sprintf("#%d", p)
	case Relative:
		if p < 0 {
			return fmt.Sprintf("rb%d", p)
		}
		return fmt.Sprintf("rb+%d", p)
	default:
		return fmt.Sprintf("[%d]", p)
	}
}

// DisassembleInstruction renders the instruction at the start of words.
// It returns the text and the number of words consumed.
func DisassembleInstruction(words []int64) (string, int, error) {
	if len(words) == 0 {
		return "", 0, fmt.Errorf("no words")
	}
	ins, err := Decode(words[0])
	if err != nil {
		return "", 0, err
	}
	info := ins.Info()
	if int(info.Size()) > len(words) {
		return "", 0, fmt.Errorf("%s needs %d words, %d left", info.Name, info.Size(), len(words))
	}
	args := make([]string, 0, info.Params)
	for i := 0; i < info.Params; i++ {
		m := ins.Modes[i]
		if i == info.WriteParam && m == Immediate {
			m = Position
		}
		args = append(args, FormatOperand(m, words[i+1]))
	}
	text := info.Name
	switch {
	case info.WriteParam >= 0 && info.Params > 1:
		text += " " + strings.Join(args[:info.WriteParam], ", ") + " -> " + args[info.WriteParam]
	case info.WriteParam == 0:
		text += " -> " + args[0]
	case len(args) > 0:
		text += " " + strings.Join(args, ", ")
	}
	return text, int(info.Size()), nil
}

// Disassemble walks words linearly from address 0. Words that do not decode,
// or an instruction truncated by the end of the tape, are emitted as data.
func Disassemble(words []int64) []Line {
	lines := make([]Line, 0, len(words)/2)
	for addr := 0; addr < len(words); {
		text, n, err := DisassembleInstruction(words[addr:])
		if err != nil {
			lines = append(lines, Line{Addr: int64(addr), Words: words[addr : addr+1], Text: fmt.Sprintf("DATA %d", words[addr]), Data: true})
			addr++
			continue
		}
		lines = append(lines, Line{Addr: int64(addr), Words: words[addr : addr+n], Text: text})
		addr += n
	}
	return lines
}
