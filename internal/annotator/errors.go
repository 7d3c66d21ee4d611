package annotator

import "fmt"

// RecognizerFailure occurs when the recognizer itself fails on a query, as
// opposed to reporting a syntax error in it.
type RecognizerFailure struct {
	// Kind names the failure, the error or panic value type.
	Kind string
	Err  error
}

func (e *RecognizerFailure) Error() string {
	return fmt.Sprintf("recognizer failure (%s): %v", e.Kind, e.Err)
}

func (e *RecognizerFailure) Unwrap() error {
	return e.Err
}

// Message is the diagnostic text shown for the whole region.
func (e *RecognizerFailure) Message() string {
	return fmt.Sprintf("annotator error. \nexception: %s\nmessage: %v", e.Kind, e.Err)
}
