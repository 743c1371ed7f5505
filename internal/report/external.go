package report

// Test is the opaque per-test value a host runner hands to every hook.
type Test interface {
	// ID returns the fully dotted test identifier.
	ID() string
}

// Wrapper is implemented by tests that wrap an inner case. Runners represent
// class based and function based tests with different nesting depths.
type Wrapper interface {
	Unwrap() any
}

// ExternalIDer exposes an identifier assigned outside of the test path,
// typically by a tracking system.
type ExternalIDer interface {
	ExternalID() (any, bool)
}

// DetailsProvider exposes supplementary metadata for a test.
type DetailsProvider interface {
	Details() (map[string]any, bool)
}

// ExternalID returns the external id carried by the case wrapped by test, or
// nil when there is none.
func ExternalID(test Test) any {
	inner := unwrap(test)
	if inner == nil {
		return nil
	}

	src, ok := inner.(ExternalIDer)
	if !ok {
		return nil
	}

	id, ok := src.ExternalID()
	if !ok {
		return nil
	}

	return id
}

// Details returns the details exposed by the wrapped case, falling back to
// one further level of wrapping. Returns nil when neither level has any.
func Details(test Test) map[string]any {
	inner := unwrap(test)

	for _, candidate := range []any{inner, unwrap(inner)} {
		src, ok := candidate.(DetailsProvider)
		if !ok {
			continue
		}

		if details, ok := src.Details(); ok {
			if details == nil {
				details = map[string]any{}
			}

			return details
		}
	}

	return nil
}

func unwrap(v any) any {
	w, ok := v.(Wrapper)
	if !ok {
		return nil
	}

	return w.Unwrap()
}
