package parser

import (
	"strings"

	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func encode(src string, strict bool) ([]byte, *Program, error) {
	p := NewParser("test.cjfx", src)
	p.Parse()
	prog := NewProgram(p, strict)
	buf, err := prog.Encode()
	return buf, prog, err
}

var _ = g.Describe("Lexer", func() {
	g.It("should strip comments before detecting labels", func() {
		l := NewLexer("t", "  start:  ; comment\n; only comment\n\n\tSET 1 ; c\nEND ; x:\n")
		it := l.nextItem()
		Expect(it.typ).To(Equal(itemLabel))
		Expect(it.val).To(Equal("start"))
		Expect(it.line).To(Equal(1))

		it = l.nextItem()
		Expect(it.typ).To(Equal(itemInstruction))
		Expect(it.fields).To(Equal([]string{"SET", "1"}))
		Expect(it.line).To(Equal(4))

		it = l.nextItem()
		Expect(it.typ).To(Equal(itemInstruction))
		Expect(it.fields).To(Equal([]string{"END"}))

		Expect(l.nextItem().typ).To(Equal(itemEOF))
	})

	g.It("should trim the label name before the colon", func() {
		l := NewLexer("t", "my loop :")
		it := l.nextItem()
		Expect(it.typ).To(Equal(itemLabel))
		Expect(it.val).To(Equal("my loop"))
	})
})

var _ = g.Describe("parseNumber", func() {
	g.DescribeTable("literals",
		func(in string, want byte, valid bool) {
			n, ok := parseNumber(in)
			Expect(n).To(Equal(want))
			Expect(ok).To(Equal(valid))
		},
		g.Entry("decimal", "42", byte(42), true),
		g.Entry("decimal truncated", "300", byte(300%256), true),
		g.Entry("negative", "-1", byte(0xFF), true),
		g.Entry("hex", "0x1F", byte(0x1F), true),
		g.Entry("hex upper prefix", "0XfF", byte(0xFF), true),
		g.Entry("binary", "0b101", byte(5), true),
		g.Entry("register", "R7", byte(7), true),
		g.Entry("register lower", "r3", byte(3), true),
		g.Entry("trailing garbage", "12abc", byte(12), false),
		g.Entry("no digits", "abc", byte(0), false),
		g.Entry("bare hex prefix", "0x", byte(0), false),
		g.Entry("overflow saturates", "99999999999999999999999", byte(0xFF), true),
	)
})

var _ = g.Describe("Program", func() {
	g.It("should encode the draw scenario", func() {
		buf, _, err := encode("LDX 5\nLDY 3\nLDT 3\nSET 10\nRDR 3\nDRAW 0\n", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(Equal([]byte{0x02, 0x05, 0x03, 0x03, 0x04, 0x03, 0x09, 0x0A, 0x0F, 0x03, 0x07, 0x00}))
	})

	g.It("should resolve forward labels against the end of the jump", func() {
		buf, prog, err := encode("JMPF END\nINC\nINC\nEND:\nHALT\n", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(Equal([]byte{0x15, 0x02, 0x13, 0x13, 0x00}))
		addr, ok := prog.LabelAddress("END")
		Expect(ok).To(BeTrue())
		Expect(addr).To(Equal(uint16(4)))
	})

	g.It("should resolve backward labels against the end of the jump", func() {
		buf, _, err := encode("TOP:\nINC\nINC\nJRB 5 TOP\n", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(Equal([]byte{0x13, 0x13, 0x18, 0x05, 0x05}))
	})

	g.It("should ignore operand tokens past the second", func() {
		buf, _, err := encode("LOOP:\nINC\nJRB 5 3 LOOP\n", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(Equal([]byte{0x13, 0x18, 0x05, 0x03}))
	})

	g.It("should not substitute labels on non jump instructions", func() {
		buf, _, err := encode("X:\nSET X\n", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(Equal([]byte{0x09, 0x00}))
	})

	g.It("should match mnemonics case-insensitively and labels case-sensitively", func() {
		_, prog, err := encode("Loop:\nset 1\njmpb Loop\n", false)
		Expect(err).NotTo(HaveOccurred())
		_, ok := prog.LabelAddress("loop")
		Expect(ok).To(BeFalse())
	})

	g.It("should report the label list in address order", func() {
		_, prog, err := encode("A:\nINC\nB:\nC:\nDEC\n", false)
		Expect(err).NotTo(HaveOccurred())
		var names []string
		for _, l := range prog.Labels() {
			names = append(names, l.Name)
		}
		Expect(names).To(Equal([]string{"A", "B", "C"}))
		Expect(prog.Size()).To(Equal(2))
	})

	g.It("should be idempotent", func() {
		p := NewParser("t", "A:\nJMPF B\nINC\nB:\nJMPB A\n")
		p.Parse()
		prog := NewProgram(p, true)
		first, err := prog.Encode()
		Expect(err).NotTo(HaveOccurred())
		second, err := prog.Encode()
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	g.DescribeTable("errors",
		func(src string, strict bool, kind error) {
			buf, _, err := encode(src, strict)
			Expect(err).To(MatchError(kind))
			Expect(buf).To(BeNil())
		},
		g.Entry("unknown mnemonic", "FOO 1\n", false, ErrUnknownMnemonic),
		g.Entry("missing operand", "SET\n", false, ErrOperandCount),
		g.Entry("extra operand", "INC 1\n", false, ErrOperandCount),
		g.Entry("label before forward jump", "A:\nJMPF A\n", false, ErrLabelBeforeForwardJump),
		g.Entry("label after backward jump", "JMPB A\nINC\nA:\n", false, ErrLabelAfterBackwardJump),
		g.Entry("duplicate label", "A:\nINC\nA:\n", false, ErrDuplicateLabel),
		g.Entry("invalid operand in strict mode", "SET abc\n", true, ErrInvalidOperand),
	)

	g.It("should reject a jump offset over 255", func() {
		src := "JMPF FAR\n" + strings.Repeat("INC\n", 300) + "FAR:\n"
		_, _, err := encode(src, false)
		Expect(err).To(MatchError(ErrOffsetOverflow))
	})

	g.It("should reject a program over the address space", func() {
		src := strings.Repeat("SET 1\n", 1<<15+1)
		_, _, err := encode(src, false)
		Expect(err).To(MatchError(ErrProgramTooLarge))
	})

	g.It("should prefix errors with the source position", func() {
		_, _, err := encode("INC\n\nFOO\n", false)
		Expect(err).To(MatchError(ContainSubstring("test.cjfx:3:")))
	})
})

var _ = g.Describe("Decode", func() {
	g.It("should decode a single instruction", func() {
		ins, n, err := DecodeNextInstruction([]byte{0x17, 0x05, 0x03, 0xFF})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(3))
		Expect(ins.OpCode.Name).To(Equal("JRF"))
		Expect(ins.Params).To(HaveLen(2))
		Expect(ins.Params[1].Value).To(Equal(byte(3)))
	})

	g.It("should flag reserved opcodes and truncated operands", func() {
		_, n, err := DecodeNextInstruction([]byte{0x1A})
		Expect(err).To(MatchError(ErrInvalidOpcode))
		Expect(n).To(Equal(1))

		_, n, err = DecodeNextInstruction([]byte{0x08, 0x01})
		Expect(err).To(MatchError(ErrTruncated))
		Expect(n).To(Equal(2))
	})

	g.It("should synthesize labels that assemble back to the same bytes", func() {
		src := "TOP:\nINC\nJRF 5 OUT\nJMPB TOP\nOUT:\nHALT\n"
		want, _, err := encode(src, false)
		Expect(err).NotTo(HaveOccurred())

		prog := &Program{}
		Expect(prog.Decode(want)).To(Succeed())
		listing := ""
		for _, n := range prog.Nodes {
			listing += n.PrettyPrint(prog.Nodes) + "\n"
		}
		Expect(listing).To(ContainSubstring("L0000:"))
		Expect(listing).To(ContainSubstring("L0006:"))

		got, _, err := encode(listing, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	listingOf := func(code []byte) string {
		prog := &Program{}
		Expect(prog.Decode(code)).To(Succeed())
		var sb strings.Builder
		for _, n := range prog.Nodes {
			sb.WriteString(n.PrettyPrint(prog.Nodes) + "\n")
		}
		return sb.String()
	}

	g.It("should keep numeric forward offsets across undecodable bytes", func() {
		listing := listingOf([]byte{0x15, 0x01, 0x19, 0x00})
		Expect(listing).To(ContainSubstring("JMPF  1"))
		Expect(listing).NotTo(ContainSubstring("L0003"))

		got, _, err := encode(listing, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal([]byte{0x15, 0x01, 0x00}))
	})

	g.It("should keep numeric backward offsets across undecodable bytes", func() {
		listing := listingOf([]byte{0x13, 0x1A, 0x16, 0x04})
		Expect(listing).To(ContainSubstring("JMPB  4"))
		Expect(listing).NotTo(ContainSubstring("L0000"))
	})

	g.It("should still label jumps whose range holds no undecodable byte", func() {
		listing := listingOf([]byte{0x19, 0x15, 0x00, 0x00})
		Expect(listing).To(ContainSubstring("JMPF  L0003"))
		Expect(listing).To(ContainSubstring("L0003:"))
	})
})

var _ = g.Describe("Resolve", func() {
	g.It("should not advance the address on unknown mnemonics", func() {
		p := NewParser("t", "FOO\nA:\nINC\n")
		p.Parse()
		prog := NewProgram(p, false)
		Expect(prog.Resolve()).To(Succeed())

		addr, ok := prog.LabelAddress("A")
		Expect(ok).To(BeTrue())
		Expect(addr).To(Equal(uint16(0)))
		Expect(prog.Size()).To(Equal(1))

		buf, err := prog.Encode()
		Expect(err).To(MatchError(ErrUnknownMnemonic))
		Expect(buf).To(BeNil())
	})
})
