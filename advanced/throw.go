package advanced

import "github.com/pkg/errors"

// Threading errors through every flip and walk would add a lot of noise for
// conditions that only arise from bugs. Those conditions panic instead, and the
// public API recovers them into an error.

type TriangulateError error

// Panic with a TriangulateError.
func fatalf(format string, args ...interface{}) {
	panic(TriangulateError(errors.Errorf(format, args...)))
}

func HandleTriangulatePanicRecover(r interface{}) error {
	if r != nil {
		if triangulateError, ok := r.(TriangulateError); ok {
			return errors.Wrap(triangulateError, "triangulation failed")
		}
		panic(r)
	}
	return nil
}
