package subgraph

// Options is the run wide configuration handed to every validation. It is built once before
// any schema is looked at and never changed afterwards, so it is passed around by value.
type Options struct {
	// AllowNonDeterministicFulltextSearch permits @fulltext directives. Fulltext query results
	// are not deterministic across indexers, so they are rejected unless this is set.
	AllowNonDeterministicFulltextSearch bool
}
