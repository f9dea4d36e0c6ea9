package parser

import (
	"fmt"
	"strings"

	"go.creack.net/cjfx/op"
)

type itemType int

const (
	itemLabel       itemType = iota // Label definition; value is the trimmed name.
	itemInstruction                 // Instruction line; fields hold mnemonic and operands.
	itemEOF                         // End of the input.
)

func (it itemType) String() string {
	switch it {
	case itemLabel:
		return "<label>"
	case itemInstruction:
		return "<instruction>"
	case itemEOF:
		return "<eof>"
	default:
		return fmt.Sprintf("<unknown token %d>", it)
	}
}

type item struct {
	typ    itemType // The type of this item.
	pos    Pos      // The start position, in bytes, of this item's line in the input string.
	val    string   // The value of this item.
	fields []string // Whitespace-delimited fields of an instruction line.
	line   int      // The line number of this item.
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case len(i.val) > 10:
		return fmt.Sprintf("%s %.10q...", i.typ, i.val)
	}
	return fmt.Sprintf("%s %q", i.typ, i.val)
}

type Pos int

// lexer holds the state of the scanner.
// The grammar is line oriented: each non-empty line, once the comment
// is stripped and surrounding whitespace trimmed, is either a label or
// an instruction.
type lexer struct {
	name  string // The name of the input; used only for error reports.
	input string // The string being scanned.
	pos   Pos    // Current position in the input.
	line  int    // Number of lines consumed.
}

// stripComment drops everything from the first comment char.
func stripComment(line string) string {
	if i := strings.IndexByte(line, op.CommentChar); i != -1 {
		return line[:i]
	}
	return line
}

// nextLine returns the next raw line and its position, without the newline.
func (l *lexer) nextLine() (string, Pos, bool) {
	if int(l.pos) >= len(l.input) {
		return "", l.pos, false
	}
	start := l.pos
	rest := l.input[start:]
	end := strings.IndexByte(rest, '\n')
	if end == -1 {
		end = len(rest)
		l.pos = Pos(len(l.input))
	} else {
		l.pos += Pos(end + 1)
	}
	l.line++
	return rest[:end], start, true
}

// nextItem returns the next item from the input.
// Blank and comment-only lines are skipped.
func (l *lexer) nextItem() item {
	for {
		raw, pos, ok := l.nextLine()
		if !ok {
			return item{typ: itemEOF, pos: l.pos, val: "EOF", line: l.line}
		}
		text := strings.TrimSpace(stripComment(raw))
		if text == "" {
			continue
		}
		if text[len(text)-1] == op.LabelChar {
			name := strings.TrimSpace(text[:len(text)-1])
			return item{typ: itemLabel, pos: pos, val: name, line: l.line}
		}
		return item{typ: itemInstruction, pos: pos, val: text, fields: strings.Fields(text), line: l.line}
	}
}

// NewLexer creates a new scanner for the input string.
func NewLexer(name, input string) *lexer {
	return &lexer{
		name:  name,
		input: input,
	}
}
