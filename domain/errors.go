package domain

// InvalidInputError represents a precondition failure: bad input or an
// unresolvable index binding. It is fatal to the call and never retried.
type InvalidInputError struct {
	Op  string
	Err string
}

func (e *InvalidInputError) Error() string {
	return e.Op + ": " + e.Err
}

// RepositoryError represents an error from the record store layer.
type RepositoryError struct {
	Op  string
	Err string
}

func (e *RepositoryError) Error() string {
	return e.Op + ": " + e.Err
}

// SearchEngineError represents an error from the search engine layer.
type SearchEngineError struct {
	Op  string
	Err string
}

func (e *SearchEngineError) Error() string {
	return e.Op + ": " + e.Err
}
