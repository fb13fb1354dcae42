package subgraph

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// intervals an aggregation can be computed over, in the order they are generated
var aggregationIntervals = []string{"hour", "day"}

var aggregateFunctions = map[string]bool{
	"sum":   true,
	"max":   true,
	"min":   true,
	"count": true,
	"first": true,
	"last":  true,
}

var numericTypes = map[string]bool{
	"Int":        true,
	"Int8":       true,
	"BigInt":     true,
	"BigDecimal": true,
	"Float":      true,
}

// Aggregation is what @aggregation declares on a type
type Aggregation struct {
	Intervals []string
	Source    string
}

// Aggregate is what @aggregate declares on a field of an aggregation
type Aggregate struct {
	Fn         string
	Arg        string
	Cumulative bool
}

func parseAggregation(directive *ast.Directive) (*Aggregation, error) {
	aggregation := &Aggregation{}

	intervals, ok := ListValues(DirectiveArgument(directive, "intervals"))
	if !ok || len(intervals) == 0 {
		return nil, fmt.Errorf("@aggregation needs a non empty list of `intervals`")
	}
	for _, value := range intervals {
		interval, ok := StringValue(value)
		if !ok || !isAggregationInterval(interval) {
			return nil, fmt.Errorf("@aggregation has an unsupported interval %s, expected hour or day", value.String())
		}
		aggregation.Intervals = append(aggregation.Intervals, interval)
	}

	source, ok := StringValue(DirectiveArgument(directive, "source"))
	if !ok || source == "" {
		return nil, fmt.Errorf("@aggregation needs a string argument `source`")
	}
	aggregation.Source = source

	return aggregation, nil
}

func parseAggregate(directive *ast.Directive) (*Aggregate, error) {
	aggregate := &Aggregate{}

	fn, ok := StringValue(DirectiveArgument(directive, "fn"))
	if !ok || !aggregateFunctions[fn] {
		return nil, fmt.Errorf("@aggregate needs `fn` to be one of %s", sortedKeys(aggregateFunctions))
	}
	aggregate.Fn = fn

	if value := DirectiveArgument(directive, "arg"); value != nil {
		arg, ok := StringValue(value)
		if !ok {
			return nil, fmt.Errorf("@aggregate argument `arg` must be a string")
		}
		aggregate.Arg = arg
	}
	if aggregate.Arg == "" && fn != "count" {
		return nil, fmt.Errorf("@aggregate(fn: %q) needs an `arg`", fn)
	}

	if value := DirectiveArgument(directive, "cumulative"); value != nil {
		cumulative, ok := BooleanValue(value)
		if !ok {
			return nil, fmt.Errorf("@aggregate argument `cumulative` must be a boolean")
		}
		aggregate.Cumulative = cumulative
	}

	return aggregate, nil
}

func isAggregationInterval(interval string) bool {
	for _, known := range aggregationIntervals {
		if known == interval {
			return true
		}
	}
	return false
}

func validateAggregations(v *validation) []error {
	errs := []error{}
	for _, definition := range v.objectLike() {
		directive := TypeDefinition{definition}.FindDirective(aggregationDirective)
		if directive == nil || definition.Kind != ast.Object {
			continue
		}
		path := []interface{}{definition.Name}

		if !v.version.AtLeast(SpecVersion1_1_0) {
			errs = append(errs, newErrorf("AGGREGATIONS_NOT_SUPPORTED", path,
				"aggregation `%s` requires spec version %s, the schema uses %s", definition.Name, SpecVersion1_1_0, v.version))
			continue
		}

		aggregation, err := parseAggregation(directive)
		if err != nil {
			errs = append(errs, newErrorf("INVALID_AGGREGATION", path, "%s on `%s`", err, definition.Name))
			continue
		}
		if !v.isTimeseries(aggregation.Source) {
			errs = append(errs, newErrorf("INVALID_AGGREGATION", path,
				"the source `%s` of aggregation `%s` is not a timeseries", aggregation.Source, definition.Name))
			continue
		}
		source := v.definitions[aggregation.Source]

		errs = append(errs, requireField(definition, idField, "Int8!", "INVALID_AGGREGATION")...)
		errs = append(errs, requireField(definition, timestampField, "Timestamp!", "INVALID_AGGREGATION")...)

		aggregates := 0
		for _, field := range definition.Fields {
			if field.Name == idField || field.Name == timestampField {
				continue
			}
			fieldPath := []interface{}{definition.Name, field.Name}
			aggregateDir := FieldDefinition{field}.FindDirective(aggregateDirective)

			if aggregateDir == nil {
				// dimensions are copied from the source and grouped by
				sourceField := source.Fields.ForName(field.Name)
				if sourceField == nil || sourceField.Type.String() != field.Type.String() {
					errs = append(errs, newErrorf("INVALID_AGGREGATION", fieldPath,
						"dimension `%s.%s` must match a field of the same type on `%s`", definition.Name, field.Name, source.Name))
				}
				continue
			}

			aggregates++
			aggregate, err := parseAggregate(aggregateDir)
			if err != nil {
				errs = append(errs, newErrorf("INVALID_AGGREGATION", fieldPath, "%s on `%s.%s`", err, definition.Name, field.Name))
				continue
			}
			if field.Type.Elem != nil || !numericTypes[field.Type.Name()] {
				errs = append(errs, newErrorf("INVALID_AGGREGATION", fieldPath,
					"aggregate `%s.%s` must have a numeric type, not `%s`", definition.Name, field.Name, field.Type.String()))
			}
			if aggregate.Arg == "" {
				continue
			}
			arg := source.Fields.ForName(aggregate.Arg)
			if arg == nil || arg.Type.Elem != nil || !numericTypes[arg.Type.Name()] {
				errs = append(errs, newErrorf("INVALID_AGGREGATION", fieldPath,
					"aggregate `%s.%s` uses `%s.%s`, which is not a numeric field", definition.Name, field.Name, source.Name, aggregate.Arg))
			}
		}
		if aggregates == 0 {
			errs = append(errs, newErrorf("INVALID_AGGREGATION", path,
				"aggregation `%s` must have at least one field with @aggregate", definition.Name))
		}
	}
	return errs
}
