package filterexpr

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes filter and order expressions.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(AND|OR|NOT|IN|IS|NULL|LIKE|ILIKE|TRUE|FALSE)\b`},

	{Name: "String", Pattern: `'(?:''|[^'])*'`},
	{Name: "QuotedIdent", Pattern: `"(?:""|[^"])+"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},

	{Name: "Operator", Pattern: `<>|!=|<=|>=|=|<|>`},
	{Name: "Punct", Pattern: `[(),.]`},

	{Name: "Whitespace", Pattern: `\s+`},
})
