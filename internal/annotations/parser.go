package annotations

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ParserEngine interface defines the core parsing functionality
type ParserEngine interface {
	ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error)
	ValidateAnnotation(annotation *ParsedAnnotation) error
}

// annotationNode is the grammar root: autoinject::kind [Target] [-Param[=Value]]...
type annotationNode struct {
	Pos    lexer.Position
	Kind   string       `parser:"Prefix @Ident"`
	Target *string      `parser:"@(QualifiedIdent | Ident)?"`
	Params []*paramNode `parser:"@@*"`
}

type paramNode struct {
	Pos   lexer.Position
	Name  string  `parser:"Dash @Ident"`
	Value *string `parser:"(Equals @(String | QualifiedIdent | Ident | Number))?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Prefix", Pattern: `autoinject::`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "QualifiedIdent", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type parser struct {
	grammar   *participle.Parser[annotationNode]
	registry  AnnotationRegistry
	validator SchemaValidator
}

// NewParser creates a participle-backed annotation parser. A nil registry
// skips schema validation.
func NewParser(registry AnnotationRegistry) ParserEngine {
	return &parser{
		grammar: participle.MustBuild[annotationNode](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
		registry:  registry,
		validator: NewValidator(),
	}
}

// IsAnnotation reports whether a comment line carries an autoinject annotation
func IsAnnotation(comment string) bool {
	return strings.HasPrefix(stripComment(comment), Prefix)
}

func stripComment(comment string) string {
	text := strings.TrimSpace(comment)
	text = strings.TrimPrefix(text, "//")
	return strings.TrimSpace(text)
}

// ParseAnnotation parses a single comment line into a ParsedAnnotation
func (p *parser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	text := stripComment(comment)
	if !strings.HasPrefix(text, Prefix) {
		return nil, &SyntaxError{
			Msg:  fmt.Sprintf("comment does not start with %s", Prefix),
			Loc:  location,
			Hint: fmt.Sprintf("Annotations look like //%signore Target", Prefix),
		}
	}

	node, err := p.grammar.ParseString(location.File, text)
	if err != nil {
		return nil, p.syntaxError(err, location)
	}

	annotationType, err := ParseAnnotationType(node.Kind)
	if err != nil {
		return nil, &SyntaxError{
			Msg:  err.Error(),
			Loc:  location,
			Hint: "Use one of transient, scoped, singleton or ignore",
		}
	}

	annotation := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        text,
	}
	if node.Target != nil {
		annotation.Target = *node.Target
	}

	for _, param := range node.Params {
		if _, dup := annotation.Parameters[param.Name]; dup {
			return nil, &SyntaxError{
				Msg:  fmt.Sprintf("parameter -%s given more than once", param.Name),
				Loc:  offset(location, param.Pos),
				Hint: fmt.Sprintf("Remove the duplicate -%s", param.Name),
			}
		}
		value, err := paramValue(param)
		if err != nil {
			return nil, &SyntaxError{
				Msg:  err.Error(),
				Loc:  offset(location, param.Pos),
				Hint: "Quote string values with double quotes",
			}
		}
		annotation.Parameters[param.Name] = value
	}

	if p.registry != nil {
		if err := p.ValidateAnnotation(annotation); err != nil {
			return nil, err
		}
	}
	return annotation, nil
}

// ValidateAnnotation checks an annotation against its registered schema
func (p *parser) ValidateAnnotation(annotation *ParsedAnnotation) error {
	schema, err := p.registry.GetSchema(annotation.Type)
	if err != nil {
		return &SchemaError{
			Msg:  err.Error(),
			Loc:  annotation.Location,
			Hint: "Register the annotation type before parsing",
		}
	}
	if err := p.validator.TransformParameters(annotation, schema); err != nil {
		return err
	}
	if err := p.validator.Validate(annotation, schema); err != nil {
		return err
	}
	return p.validator.ApplyDefaults(annotation, schema)
}

func paramValue(param *paramNode) (interface{}, error) {
	if param.Value == nil {
		return true, nil
	}
	raw := *param.Value
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid string for -%s: %v", param.Name, err)
		}
		return unquoted, nil
	}
	return raw, nil
}

func (p *parser) syntaxError(err error, location SourceLocation) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		return &SyntaxError{
			Msg:  perr.Message(),
			Loc:  offset(location, perr.Position()),
			Hint: fmt.Sprintf("Expected //%s<kind> [Target] [-Param=Value]", Prefix),
		}
	}
	return &SyntaxError{Msg: err.Error(), Loc: location}
}

// offset moves a comment's location to a token inside it
func offset(location SourceLocation, pos lexer.Position) SourceLocation {
	if pos.Column > 1 {
		location.Column += pos.Column - 1
	}
	return location
}
