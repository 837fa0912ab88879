package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/able/able"
	"github.com/dhamidi/able/syntax"
)

// readSource reads a file, or standard input for "-".
func readSource(filename string) ([]byte, error) {
	if filename == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read able file: %w", err)
	}
	return data, nil
}

func parseFile(filename string) (*syntax.Tree, error) {
	data, err := readSource(filename)
	if err != nil {
		return nil, err
	}
	name := filename
	if name == "-" {
		name = "<stdin>"
	}
	return able.Parse(data, syntax.WithFile(name))
}
