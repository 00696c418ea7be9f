package filterexpr

import "github.com/alecthomas/participle/v2/lexer"

// expression is a disjunction of conjunctions.
type expression struct {
	Pos lexer.Position
	Or  []*conjunction `@@ ( "OR" @@ )*`
}

type conjunction struct {
	And []*term `@@ ( "AND" @@ )*`
}

type term struct {
	Group      *expression `  "(" @@ ")"`
	Comparison *comparison `| @@`
}

// columnRef is a possibly qualified column. Quoted parts may spell reserved
// words or contain dots.
type columnRef struct {
	Parts []string `@( Ident | QuotedIdent ) ( "." @( Ident | QuotedIdent ) )*`
}

type comparison struct {
	Pos    lexer.Position
	Column *columnRef `@@`
	Binary *binary    `( @@`
	Null   *nullTest  `| @@`
	In     *inList    `| @@`
	Like   *likeTest  `| @@ )`
}

type binary struct {
	Op    string `@Operator`
	Value *value `@@`
}

type nullTest struct {
	Not bool `"IS" ( @"NOT" )? "NULL"`
}

type inList struct {
	Not    bool     `( @"NOT" )? "IN"`
	Values []*value `"(" @@ ( "," @@ )* ")"`
}

type likeTest struct {
	Op    string `@( "LIKE" | "ILIKE" )`
	Value *value `@@`
}

type value struct {
	Pos    lexer.Position
	String *string `  @String`
	Number *string `| @Number`
	Bool   *string `| @( "TRUE" | "FALSE" )`
	Null   bool    `| @"NULL"`
}

type orderList struct {
	Items []*orderItem `@@ ( "," @@ )*`
}

// orderItem keeps direction and NULLS placement as plain words so that
// columns named asc, first or last stay usable.
type orderItem struct {
	Pos       lexer.Position
	Column    *columnRef `@@`
	Modifiers []string   `@Ident*`
}
