package subgraph

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

const (
	// SubgraphIDDirective is the directive the deployment id is declared with
	SubgraphIDDirective = "subgraphId"
	// UnknownSubgraphID is used when the schema does not declare its deployment id
	UnknownSubgraphID = "unknown"

	maxDeploymentHashLen = 46
)

// DeploymentHash identifies a subgraph deployment
type DeploymentHash string

// NewDeploymentHash checks that value is usable as a deployment hash: ASCII letters, digits
// and underscores only, at most 46 characters, and not the reserved name "subgraphs".
func NewDeploymentHash(value string) (DeploymentHash, error) {
	if value == "" {
		return "", &IdentifierFormatError{Value: value, Reason: "it is empty"}
	}
	if len(value) > maxDeploymentHashLen {
		return "", &IdentifierFormatError{
			Value:  value,
			Reason: fmt.Sprintf("it is %d characters long, at most %d are allowed", len(value), maxDeploymentHashLen),
		}
	}
	for i, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return "", &IdentifierFormatError{
				Value:  value,
				Reason: fmt.Sprintf("character %q at offset %d is not an ASCII letter, digit or underscore", r, i),
			}
		}
	}
	if strings.EqualFold(value, "subgraphs") {
		return "", &IdentifierFormatError{Value: value, Reason: "`subgraphs` is reserved"}
	}
	return DeploymentHash(value), nil
}

func (h DeploymentHash) String() string {
	return string(h)
}

// DeclaredSubgraphID looks for @subgraphId(id: "...") on the first object type of the document.
// Anything missing along the way (no object type, no directive, no argument, not a string)
// gives UnknownSubgraphID.
func DeclaredSubgraphID(doc *ast.SchemaDocument) string {
	objects := ObjectTypes(doc)
	if len(objects) == 0 {
		return UnknownSubgraphID
	}
	var finder DirectiveFinder = objects[0]
	id, ok := StringValue(DirectiveArgument(finder.FindDirective(SubgraphIDDirective), "id"))
	if !ok {
		return UnknownSubgraphID
	}
	return id
}

// SubgraphID extracts the deployment id declared in the document and checks its format.
// The raw value is returned alongside so it can be reported when the format check fails.
func SubgraphID(doc *ast.SchemaDocument) (DeploymentHash, string, error) {
	raw := DeclaredSubgraphID(doc)
	id, err := NewDeploymentHash(raw)
	return id, raw, err
}
