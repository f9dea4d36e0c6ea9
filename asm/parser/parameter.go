package parser

import (
	"math"
	"strings"

	"go.creack.net/cjfx/op"
)

// Parameter represents an operand of an instruction.
// Stored as raw string, resolved when encoding.
type Parameter struct {
	RawValue string
	Value    byte   // Encoded byte, set when encoding.
	Label    string // Set when the operand resolved to a label offset.
}

func (p Parameter) String() string {
	return p.RawValue
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	default:
		return math.MaxInt
	}
}

// parsePrefix reads an optionally signed integer in the given base
// from the start of s and returns it with the number of bytes consumed.
// No digits consumes nothing and yields 0. Overflow saturates.
func parsePrefix(s string, base int) (int64, int) {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	var n int64
	overflow := false
	for ; i < len(s); i++ {
		d := digitValue(s[i])
		if d >= base {
			break
		}
		if n > (math.MaxInt64-int64(d))/int64(base) {
			overflow = true
		}
		if !overflow {
			n = n*int64(base) + int64(d)
		}
	}
	if i == start {
		return 0, 0
	}
	switch {
	case overflow && neg:
		return math.MinInt64, i
	case overflow:
		return math.MaxInt64, i
	case neg:
		return -n, i
	}
	return n, i
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// parseNumber decodes a literal operand: 0x hex, 0b binary, Rn register
// index, decimal otherwise. The value is truncated to one byte.
// ok reports whether the whole token was a valid literal.
func parseNumber(in string) (n byte, ok bool) {
	base := 10
	digits := in
	switch {
	case hasPrefixFold(in, op.HexPrefix):
		base, digits = 16, in[len(op.HexPrefix):]
	case hasPrefixFold(in, op.BinPrefix):
		base, digits = 2, in[len(op.BinPrefix):]
	case len(in) > 1 && (in[0] == op.RegisterChar || in[0] == op.RegisterChar+('a'-'A')) && isDigit(in[1]):
		digits = in[1:]
	}
	v, consumed := parsePrefix(digits, base)
	return byte(v), consumed > 0 && consumed == len(digits)
}

// Encode resolves the operand to its byte. end is the address right after
// the owning instruction, used for label offsets.
func (p *Parameter) Encode(prog *Program, ins *Instruction, end int) error {
	p.Label = ""
	if ins.OpCode.Jump != op.NoJump {
		if addr, ok := prog.labels[p.RawValue]; ok {
			var offset int
			if ins.OpCode.Jump == op.JumpForward {
				offset = int(addr) - end
				if offset < 0 {
					return prog.errorf(ins.Line, ErrLabelBeforeForwardJump, "%s %q", ins.OpCode.Name, p.RawValue)
				}
			} else {
				offset = end - int(addr)
				if offset < 0 {
					return prog.errorf(ins.Line, ErrLabelAfterBackwardJump, "%s %q", ins.OpCode.Name, p.RawValue)
				}
			}
			if offset > math.MaxUint8 {
				return prog.errorf(ins.Line, ErrOffsetOverflow, "%s %q: 0x%X > 255", ins.OpCode.Name, p.RawValue, offset)
			}
			p.Value = byte(offset)
			p.Label = p.RawValue
			return nil
		}
	}

	n, ok := parseNumber(p.RawValue)
	if !ok {
		if prog.strict {
			return prog.errorf(ins.Line, ErrInvalidOperand, "%s %q is not a number, register or known label", ins.OpCode.Name, p.RawValue)
		}
		log.Warningf("%s:%d: operand %q of %s parsed as 0x%02X", prog.Name, ins.Line, p.RawValue, ins.OpCode.Name, n)
	}
	p.Value = n
	return nil
}
