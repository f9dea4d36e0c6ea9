package parser

import (
	"go.creack.net/cjfx/op"
)

type Label struct {
	Name string
	Line int
	Addr uint16 // Set by the label pass.
}

func (l *Label) PrettyPrint(nodes []Node) string {
	// Unless we are immediately after a label, prefix with a newline.
	var prev Node
	for i, n := range nodes {
		if l1, ok := n.(*Label); ok && l1 == l {
			if _, ok := prev.(*Label); ok || i == 0 {
				return l.Name + string(op.LabelChar)
			}
			return "\n" + l.Name + string(op.LabelChar)
		}
		prev = n
	}
	// Should never happen.
	panic("self reference not found in nodes")
}

func (l *Label) Resolve(p *Program) error {
	if _, ok := p.labels[l.Name]; ok {
		return p.errorf(l.Line, ErrDuplicateLabel, "%q", l.Name)
	}
	if p.idx > op.MaxCodeSize-1 {
		return p.errorf(l.Line, ErrProgramTooLarge, "label %q past 0x%04X", l.Name, op.MaxCodeSize-1)
	}
	l.Addr = uint16(p.idx)
	p.labels[l.Name] = l.Addr
	p.labelOrder = append(p.labelOrder, l)
	log.Debugf("label %s @ 0x%04X", l.Name, l.Addr)
	return nil
}

// Encode emits nothing for labels.
func (l *Label) Encode(*Program) error {
	return nil
}
