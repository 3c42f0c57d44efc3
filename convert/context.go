// Package convert is the type-directed conversion engine: it walks a record
// type's fields, classifies each declared type, resolves metadata, and
// dispatches to the converter registered for the (target, kind) pair. Target
// packages own the document envelopes; this package owns the walk.
package convert

// Target identifies one output schema flavor, e.g. "avro" or "relational".
type Target string

// Context rides through the whole call graph of one conversion. Converters
// read it and never mutate it; recursion into nested records goes through
// Child, which derives a new context with an extended namespace.
type Context struct {
	// Target is the active output format.
	Target Target

	// Request is an ambient caller blob (feature flags, tenant info) passed
	// through to converters untouched.
	Request any

	// Namespace qualifies nested record names in the output and failing
	// field paths in errors.
	Namespace string

	// Settings holds the active target's per-call options (e.g. whether to
	// ignore required flags). Set by the target's entry point, read only by
	// that target's converters.
	Settings any
}

// Child returns a copy of the context with the namespace extended by name.
func (c *Context) Child(name string) *Context {
	child := *c
	child.Namespace = joinPath(c.Namespace, name)
	return &child
}

// Path renders the namespace-qualified path of a field, for diagnostics.
func (c *Context) Path(field string) string {
	return joinPath(c.Namespace, field)
}

func joinPath(ns, name string) string {
	if ns == "" {
		return name
	}
	if name == "" {
		return ns
	}
	return ns + "." + name
}
