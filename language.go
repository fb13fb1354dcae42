package subgraph

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// DirectiveFinder is implemented by every part of a schema document that can be annotated
// with directives. Lookups go through it so callers don't care whether they hold an object
// type, an interface or a field.
type DirectiveFinder interface {
	FindDirective(name string) *ast.Directive
	FindDirectives(name string) []*ast.Directive
}

// TypeDefinition wraps any named definition of a schema document (object, interface, enum ...)
type TypeDefinition struct {
	*ast.Definition
}

// FindDirective returns the first directive with the given name, or nil
func (d TypeDefinition) FindDirective(name string) *ast.Directive {
	return d.Directives.ForName(name)
}

// FindDirectives returns every directive with the given name in declaration order
func (d TypeDefinition) FindDirectives(name string) []*ast.Directive {
	return directivesNamed(d.Directives, name)
}

// FieldDefinition wraps a field of an object or interface type
type FieldDefinition struct {
	*ast.FieldDefinition
}

// FindDirective returns the first directive with the given name, or nil
func (f FieldDefinition) FindDirective(name string) *ast.Directive {
	return f.Directives.ForName(name)
}

// FindDirectives returns every directive with the given name in declaration order
func (f FieldDefinition) FindDirectives(name string) []*ast.Directive {
	return directivesNamed(f.Directives, name)
}

var (
	_ DirectiveFinder = TypeDefinition{}
	_ DirectiveFinder = FieldDefinition{}
)

func directivesNamed(list ast.DirectiveList, name string) []*ast.Directive {
	found := []*ast.Directive{}
	for _, directive := range list {
		if directive.Name == name {
			found = append(found, directive)
		}
	}
	return found
}

// ObjectTypes returns the object type definitions of the document in declaration order
func ObjectTypes(doc *ast.SchemaDocument) []TypeDefinition {
	objects := []TypeDefinition{}
	for _, definition := range doc.Definitions {
		if definition.Kind == ast.Object {
			objects = append(objects, TypeDefinition{definition})
		}
	}
	return objects
}

// DirectiveArgument returns the value passed to the named argument of a directive, if any
func DirectiveArgument(directive *ast.Directive, name string) *ast.Value {
	if directive == nil {
		return nil
	}
	arg := directive.Arguments.ForName(name)
	if arg == nil {
		return nil
	}
	return arg.Value
}

// StringValue returns the contents of a string (or block string) literal
func StringValue(value *ast.Value) (string, bool) {
	if value == nil {
		return "", false
	}
	switch value.Kind {
	case ast.StringValue, ast.BlockValue:
		return value.Raw, true
	}
	return "", false
}

// BooleanValue returns the value of a boolean literal
func BooleanValue(value *ast.Value) (bool, bool) {
	if value == nil || value.Kind != ast.BooleanValue {
		return false, false
	}
	return value.Raw == "true", true
}

// EnumValue returns the name of an enum literal
func EnumValue(value *ast.Value) (string, bool) {
	if value == nil || value.Kind != ast.EnumValue {
		return "", false
	}
	return value.Raw, true
}

// ListValues returns the items of a list literal
func ListValues(value *ast.Value) ([]*ast.Value, bool) {
	if value == nil || value.Kind != ast.ListValue {
		return nil, false
	}
	items := make([]*ast.Value, 0, len(value.Children))
	for _, child := range value.Children {
		items = append(items, child.Value)
	}
	return items, true
}

// ObjectField returns the value of the named field of an object literal
func ObjectField(value *ast.Value, name string) *ast.Value {
	if value == nil || value.Kind != ast.ObjectValue {
		return nil
	}
	for _, child := range value.Children {
		if child.Name == name {
			return child.Value
		}
	}
	return nil
}
