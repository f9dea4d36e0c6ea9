package parser

import (
	"fmt"
	"strconv"

	"go.creack.net/cjfx/op"
)

var (
	ErrInvalidOpcode = fmt.Errorf("invalid opcode")
	ErrTruncated     = fmt.Errorf("truncated instruction")
)

// Decodes the next instruction if valid. Returns the instruction and
// how many bytes have been consumed. Reserved and undefined opcodes
// consume one byte and return ErrInvalidOpcode.
func DecodeNextInstruction(buf []byte) (*Instruction, int, error) {
	if len(buf) == 0 {
		return nil, 0, fmt.Errorf("empty buffer")
	}

	b := buf[0]
	opc, ok := op.Lookup(b)
	if !ok {
		return nil, 1, fmt.Errorf("0x%02X: %w", b, ErrInvalidOpcode)
	}
	if len(buf) < opc.Size() {
		return nil, len(buf), fmt.Errorf("%s needs %d bytes, %d left: %w", opc.Name, opc.Size(), len(buf), ErrTruncated)
	}

	ins := &Instruction{
		Mnemonic: opc.Name,
		OpCode:   opc,
		Known:    true,
	}
	for _, v := range buf[1:opc.Size()] {
		ins.Params = append(ins.Params, &Parameter{RawValue: strconv.Itoa(int(v)), Value: v})
	}
	if (opc.Code == op.Ldr || opc.Code == op.Rdr) && int(ins.Params[0].Value) < op.RegisterCount {
		ins.Params[0].RawValue = string(op.RegisterChar) + ins.Params[0].RawValue
	}
	return ins, opc.Size(), nil
}

// Data is a raw byte the decoder could not turn into an instruction.
// It assembles to nothing and prints as a comment.
type Data struct {
	Addr  int
	Value byte
	Err   error
}

func (d *Data) Resolve(*Program) error { return nil }
func (d *Data) Encode(*Program) error  { return nil }

func (d *Data) PrettyPrint(_ []Node) string {
	return fmt.Sprintf("\t%c .byte 0x%02X", op.CommentChar, d.Value)
}

// Decode builds the nodes of a program from its bytecode. Jump offsets
// landing on an instruction boundary get a synthesized label, placed so
// that assembling the listing yields the same bytes. Jumps spanning
// undecodable bytes keep their numeric offset.
func (p *Program) Decode(buf []byte) error {
	if p.Parser == nil {
		p.Parser = &Parser{Name: "bytecode"}
	}
	p.Nodes = nil
	p.labels = map[string]uint16{}
	p.labelOrder = nil

	type decoded struct {
		addr int
		node Node
	}
	var list []decoded
	boundaries := map[int]bool{}
	// dataBefore[i] counts the Data bytes below address i.
	dataBefore := make([]int, len(buf)+1)
	for idx := 0; idx < len(buf); {
		ins, n, err := DecodeNextInstruction(buf[idx:])
		if err != nil {
			for i := range n {
				list = append(list, decoded{idx + i, &Data{Addr: idx + i, Value: buf[idx+i], Err: err}})
				dataBefore[idx+i+1] = 1
			}
			idx += n
			continue
		}
		ins.Addr = idx
		boundaries[idx] = true
		list = append(list, decoded{idx, ins})
		idx += n
	}
	// A label at the very end is valid too.
	boundaries[len(buf)] = true
	for i := 1; i < len(dataBefore); i++ {
		dataBefore[i] += dataBefore[i-1]
	}

	targets := map[int]*Label{}
	for _, elem := range list {
		ins, ok := elem.node.(*Instruction)
		if !ok || ins.OpCode.Jump == op.NoJump {
			continue
		}
		param := ins.Params[len(ins.Params)-1]
		end := ins.Addr + ins.OpCode.Size()
		target := end + int(param.Value)
		if ins.OpCode.Jump == op.JumpBackward {
			target = end - int(param.Value)
		}
		if !boundaries[target] {
			continue
		}
		// Data bytes assemble to nothing, a label across them would
		// shrink the offset. Keep the number.
		if dataBefore[max(end, target)] != dataBefore[min(end, target)] {
			continue
		}
		l, ok := targets[target]
		if !ok {
			l = &Label{Name: fmt.Sprintf("L%04X", target), Addr: uint16(target)}
			targets[target] = l
		}
		param.RawValue = l.Name
		param.Label = l.Name
	}

	for _, elem := range list {
		if l, ok := targets[elem.addr]; ok {
			p.Nodes = append(p.Nodes, l)
		}
		p.Nodes = append(p.Nodes, elem.node)
	}
	if l, ok := targets[len(buf)]; ok {
		p.Nodes = append(p.Nodes, l)
	}
	p.size = len(buf)
	return nil
}
