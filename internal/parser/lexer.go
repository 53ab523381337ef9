package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer maps the raw instruction tokens out for our AST definitions.
// Keywords are plain identifiers matched by value in the grammar, which keeps them case-sensitive.
// A position is a single token so only the exact "x, y" form is accepted.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Unknown", Pattern: `\?\?\?`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Pos", Pattern: `[0-9]+, [0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[,%]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// FileNameLexer tokenizes instruction file base names.
// Whitespace is significant here: it only appears inside the free-form flags segment.
var FileNameLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ext", Pattern: `\.btd6`},
	{Name: "Resolution", Pattern: `\d+x\d+`},
	{Name: "Word", Pattern: `\w+`},
	{Name: "Hash", Pattern: `#`},
	{Name: "Text", Pattern: `[^#\w]`},
})

// Build creates our instruction parser based on the struct tags in `ast.go`
func Build() *participle.Parser[Line] {
	return participle.MustBuild[Line](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
	)
}

// BuildFileName creates the filename parser
func BuildFileName() *participle.Parser[FileName] {
	return participle.MustBuild[FileName](
		participle.Lexer(FileNameLexer),
	)
}
