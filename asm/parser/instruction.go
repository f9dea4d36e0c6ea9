package parser

import (
	"fmt"
	"strings"

	"go.creack.net/cjfx/op"
)

type Instruction struct {
	Mnemonic string       // As written in the source.
	OpCode   op.OpCode    // OpCode reference, zero when unknown.
	Known    bool         // Whether the mnemonic is in the table.
	Params   []*Parameter // At most op.MaxOperands.
	Line     int
	Addr     int // Set by the label pass.
}

func (ins *Instruction) Resolve(p *Program) error {
	if !ins.Known {
		// Resolved as zero length, rejected by the emit pass.
		return nil
	}
	ins.Addr = p.idx
	p.idx += ins.OpCode.Size()
	if p.idx > op.MaxCodeSize {
		return p.errorf(ins.Line, ErrProgramTooLarge, "%s ends at 0x%X", ins.OpCode.Name, p.idx)
	}
	return nil
}

func (ins *Instruction) Encode(p *Program) error {
	if !ins.Known {
		return p.errorf(ins.Line, ErrUnknownMnemonic, "%q", ins.Mnemonic)
	}
	if len(ins.Params) != ins.OpCode.Params {
		return p.errorf(ins.Line, ErrOperandCount, "%s expects %d, got %d", ins.OpCode.Name, ins.OpCode.Params, len(ins.Params))
	}

	// Offsets are computed against the address right after the instruction.
	end := ins.Addr + ins.OpCode.Size()

	p.emit(byte(ins.OpCode.Code))
	for _, param := range ins.Params {
		if err := param.Encode(p, ins, end); err != nil {
			return err
		}
		p.emit(param.Value)
	}
	return nil
}

func (ins Instruction) PrettyPrint(_ []Node) string {
	name := ins.Mnemonic
	if ins.Known {
		name = ins.OpCode.Name
	}
	if len(ins.Params) == 0 {
		return "\t" + name
	}
	paramStrs := make([]string, 0, len(ins.Params))
	for _, param := range ins.Params {
		paramStrs = append(paramStrs, param.String())
	}
	return fmt.Sprintf("\t%-5s %s", name, strings.Join(paramStrs, " "))
}

func (ins Instruction) String() string {
	out := "<" + ins.Mnemonic
	paramStrs := make([]string, 0, len(ins.Params))
	for _, param := range ins.Params {
		paramStrs = append(paramStrs, param.String())
	}
	if len(paramStrs) == 0 {
		return out + ">"
	}
	out += " (" + strings.Join(paramStrs, " ") + ")"
	return out + ">"
}
