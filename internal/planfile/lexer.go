package planfile

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// PlanLexer defines the lexical structure for wall plan files.
// Plans are line-oriented declarations with # comments:
//
//	precision 0.1
//	wall entry type zone thickness 200 {
//	  (0, 0) (5000, 0)
//	}
var PlanLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	{Name: "KwPrecision", Pattern: `\bprecision\b`},
	{Name: "KwWall", Pattern: `\bwall\b`},
	{Name: "KwType", Pattern: `\btype\b`},
	{Name: "KwThickness", Pattern: `\bthickness\b`},
	{Name: "KwClosed", Pattern: `\bclosed\b`},

	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},

	{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?`},

	// Identifiers come after keywords
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_-]*`},
})
