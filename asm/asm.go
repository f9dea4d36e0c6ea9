// Package asm turns CJFX assembly source into bytecode.
package asm

import (
	"fmt"

	"go.creack.net/cjfx/asm/parser"
)

// Compile assembles the input. On error no bytecode is returned.
func Compile(inputName, inputData string, strict bool) ([]byte, *parser.Program, error) {
	// Parse the input.
	p := parser.NewParser(inputName, inputData)
	p.Parse()

	// Encode the program.
	pr := parser.NewProgram(p, strict)
	program, err := pr.Encode()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode program: %w", err)
	}
	return program, pr, nil
}

// Assemble compiles src in lenient mode.
func Assemble(src string) ([]byte, error) {
	buf, _, err := Compile("<input>", src, false)
	return buf, err
}

// MustAssemble is like Assemble but panics on error.
func MustAssemble(src string) []byte {
	buf, err := Assemble(src)
	if err != nil {
		panic(err)
	}
	return buf
}
