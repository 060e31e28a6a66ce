// Package planfile parses the text format used to author wall plans.
package planfile

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses wall plan files.
type Parser struct {
	parser *participle.Parser[Plan]
}

// NewParser builds a plan file parser.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Plan](
		participle.Lexer(PlanLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a plan from a reader.
func (p *Parser) Parse(r io.Reader) (*Plan, error) {
	plan, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return plan, nil
}

// ParseString parses a plan from a string.
func (p *Parser) ParseString(input string) (*Plan, error) {
	plan, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return plan, nil
}

// ParseFile parses a plan from a file path.
func (p *Parser) ParseFile(filename string) (*Plan, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}
