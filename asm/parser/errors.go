package parser

import "fmt"

// Assembly error kinds. All of them abort the run, no partial
// bytecode is returned.
var (
	ErrUnknownMnemonic        = fmt.Errorf("unknown mnemonic")
	ErrOperandCount           = fmt.Errorf("operand count mismatch")
	ErrLabelBeforeForwardJump = fmt.Errorf("label before forward jump")
	ErrLabelAfterBackwardJump = fmt.Errorf("label after backward jump")
	ErrOffsetOverflow         = fmt.Errorf("jump offset exceeds one byte")
	ErrDuplicateLabel         = fmt.Errorf("duplicate label")
	ErrProgramTooLarge        = fmt.Errorf("program exceeds the 16-bit address space")
	ErrInvalidOperand         = fmt.Errorf("invalid operand") // Strict mode only.
)

func (p *Program) errorf(line int, kind error, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %w: %s", p.Name, line, kind, fmt.Sprintf(format, args...))
}
