package annotations

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/injector/internal/errors"
)

// markerGrammar is the root of a marker comment:
//
//	//inject::single -Constructor=NewThing
type markerGrammar struct {
	Kind    string           `parser:"'//' 'inject' '::' @Ident"`
	Options []*optionGrammar `parser:"@@*"`
}

type optionGrammar struct {
	Name  string  `parser:"'-' @Ident"`
	Value *string `parser:"( '=' @( String | Ident | Number ) )?"`
}

// Parser parses marker comments using alecthomas/participle
type Parser struct {
	parser *participle.Parser[markerGrammar]
}

// NewParser creates a new marker parser
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `//`},
		{Name: "Separator", Pattern: `::`},
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Number", Pattern: `[0-9]+`},
		{Name: "Punct", Pattern: `[-=]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	return &Parser{
		parser: participle.MustBuild[markerGrammar](
			participle.Lexer(lex),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
		),
	}
}

// IsMarker reports whether a comment line is meant as a marker. Lines that
// look like markers but fail to parse are still markers, just invalid ones.
func IsMarker(comment string) bool {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, "//") {
		return false
	}
	content := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
	return strings.HasPrefix(content, MarkerPrefix)
}

// Parse parses a single marker comment. The returned error is always a
// *errors.SyntaxError.
func (p *Parser) Parse(comment string, loc errors.SourceLocation) (Marker, error) {
	raw := strings.TrimSpace(comment)
	marker := Marker{
		Raw:      raw,
		Location: loc,
		Options:  make(map[string]string),
	}

	ast, err := p.parser.ParseString(loc.File, raw)
	if err != nil {
		p.fail(&marker, errors.WrapParseError(raw, err))
		return marker, marker.Err
	}

	kind, err := ParseMarkerKind(ast.Kind)
	if err != nil {
		p.fail(&marker, errors.WrapParseError(raw, err))
		return marker, marker.Err
	}
	marker.Kind = kind

	present := make(map[string]bool, len(ast.Options))
	for _, opt := range ast.Options {
		if present[opt.Name] {
			p.fail(&marker, errors.NewSyntaxError(raw, "option '-"+opt.Name+"' given more than once"))
			return marker, marker.Err
		}
		present[opt.Name] = true
		if opt.Value != nil {
			marker.Options[opt.Name] = *opt.Value
		}
	}

	schema, ok := SchemaFor(kind)
	if ok {
		if err := schema.Validate(marker.Options, present); err != nil {
			p.fail(&marker, errors.WrapParseError(raw, err))
			return marker, marker.Err
		}
	}

	return marker, nil
}

func (p *Parser) fail(marker *Marker, err *errors.SyntaxError) {
	err.WithLocation(marker.Location)
	marker.Kind = UnknownMarker
	marker.Err = err
}
