package parser

import (
	"fmt"
	"sort"

	"go.creack.net/cjfx/op"
)

type Program struct {
	*Parser

	buf        []byte
	idx        int
	labels     map[string]uint16
	labelOrder []*Label
	size       int

	strict bool
}

// NewProgram wraps a parsed source. When strict is set, operands that
// are not fully valid literals or labels are errors instead of warnings.
func NewProgram(p *Parser, strict bool) *Program {
	return &Program{
		Parser: p,
		strict: strict,
	}
}

// Size returns the computed program size, valid after Resolve.
func (p Program) Size() int {
	return p.size
}

// Resolve runs the label pass: every label gets the address of the
// next emitted byte and the total size is computed.
// Unknown mnemonics do not advance the address, they are reported by Encode.
func (p *Program) Resolve() error {
	p.idx = 0
	p.labels = map[string]uint16{}
	p.labelOrder = nil
	for _, n := range p.Nodes {
		if err := n.Resolve(p); err != nil {
			return err
		}
	}
	if p.idx > op.MaxCodeSize {
		return fmt.Errorf("%s: %w: %d bytes", p.Name, ErrProgramTooLarge, p.idx)
	}
	p.size = p.idx
	return nil
}

// Encode runs both passes and returns the bytecode.
func (p *Program) Encode() ([]byte, error) {
	if err := p.Resolve(); err != nil {
		return nil, fmt.Errorf("label pass: %w", err)
	}

	p.buf = make([]byte, p.size)
	p.idx = 0
	for _, n := range p.Nodes {
		if err := n.Encode(p); err != nil {
			return nil, fmt.Errorf("emit pass: %w", err)
		}
	}
	if p.idx != p.size {
		// Should never happen.
		panic(fmt.Sprintf("emit pass wrote %d bytes, label pass computed %d", p.idx, p.size))
	}
	return p.buf, nil
}

// LabelAddress returns the resolved address of the named label.
func (p *Program) LabelAddress(name string) (uint16, bool) {
	addr, ok := p.labels[name]
	return addr, ok
}

// Labels returns the resolved labels sorted by address, then by source order.
func (p *Program) Labels() []*Label {
	out := append([]*Label(nil), p.labelOrder...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}

func (p *Program) emit(b byte) {
	p.buf[p.idx] = b
	p.idx++
}
