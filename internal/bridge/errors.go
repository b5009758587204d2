package bridge

import "fmt"

// ShortArrayError reports a dataref array smaller than the engine needs.
type ShortArrayError struct {
	DataRef  string
	Expected int
	Found    int
}

func (e *ShortArrayError) Error() string {
	return fmt.Sprintf("%s: expected at least %d elements, found %d", e.DataRef, e.Expected, e.Found)
}
