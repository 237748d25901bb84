package models

// FunctionKind identifies the class of a Convex function.
// The kind determines both the HTTP endpoint used for one-shot calls
// and the execution semantics on the deployment side.
type FunctionKind int

const (
	// Query is a read-only function. Queries are the only kind that can
	// be subscribed to for live updates.
	Query FunctionKind = 1

	// Mutation is the primary write path. Mutations are transactional
	// and limited to database side effects.
	Mutation FunctionKind = 2

	// Action may have side effects beyond the database (third-party
	// calls, scheduling). Actions are not transactional.
	Action FunctionKind = 3
)

// String returns the lower-case wire name of the kind ("query",
// "mutation", "action"), or "unknown" for an invalid value.
func (k FunctionKind) String() string {
	switch k {
	case Query:
		return "query"
	case Mutation:
		return "mutation"
	case Action:
		return "action"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the defined function kinds.
func (k FunctionKind) Valid() bool {
	return k == Query || k == Mutation || k == Action
}
