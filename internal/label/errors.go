package label

import "fmt"

// RecordError reports a label rejected before drawing because of its shape.
type RecordError struct {
	// Index is the position of the label in the input.
	Index int
	// Points is the number of points the label had.
	Points int
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("label %d (%d points): %v", e.Index, e.Points, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// DrawError reports the label a batch stopped at. Labels before Index were drawn.
type DrawError struct {
	Index int
	Err   error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("label %d: %v", e.Index, e.Err)
}

func (e *DrawError) Unwrap() error { return e.Err }
