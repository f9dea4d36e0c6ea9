package parser

import (
	"go.creack.net/cjfx/op"
)

// Node is one meaningful source line.
type Node interface {
	// Resolve runs the label pass: bind labels, advance the address.
	Resolve(p *Program) error
	// Encode runs the emit pass.
	Encode(p *Program) error
	PrettyPrint(nodes []Node) string
}

// Parser structure
type Parser struct {
	Name  string
	lexer *lexer

	Nodes []Node
}

// NewParser creates a new parser
func NewParser(name, input string) *Parser {
	return &Parser{
		Name:  name,
		lexer: NewLexer(name, input),
	}
}

func (p *Parser) parseInstruction(it item) *Instruction {
	ins := &Instruction{
		Mnemonic: it.fields[0],
		Line:     it.line,
	}
	ins.OpCode, ins.Known = op.Find(ins.Mnemonic)

	// Only the first op.MaxOperands operand tokens are considered,
	// anything after is ignored.
	operands := it.fields[1:]
	if len(operands) > op.MaxOperands {
		operands = operands[:op.MaxOperands]
	}
	for _, elem := range operands {
		ins.Params = append(ins.Params, &Parameter{RawValue: elem})
	}
	return ins
}

// Parse splits the input into nodes. Unknown mnemonics are kept as
// instructions and only rejected when encoding.
func (p *Parser) Parse() {
	for {
		it := p.lexer.nextItem()
		switch it.typ {
		case itemEOF:
			return
		case itemLabel:
			p.Nodes = append(p.Nodes, &Label{Name: it.val, Line: it.line})
		case itemInstruction:
			p.Nodes = append(p.Nodes, p.parseInstruction(it))
		}
	}
}
