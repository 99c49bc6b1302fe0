package calib

import "fmt"

// MalformedRecordError reports a calibration file whose contents could not
// be mapped onto its record schema: a required field is absent, a value does
// not parse as its declared type, a key is unrecognized, or a declared count
// disagrees with the length of an associated array field.
type MalformedRecordError struct {
	Path   string // file the record was loaded from
	Field  string // offending field or key, if known
	Reason string
	Err    error // underlying parse error, if any
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("malformed calibration record %s", e.Path)
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// ShapeMismatchError reports a declared count that disagrees with the actual
// length of the data it describes. It is raised at tensor-synthesis time,
// never papered over by truncation or padding.
type ShapeMismatchError struct {
	What string // what was being reshaped, e.g. "coupling data"
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch in %s: want %d values, got %d", e.What, e.Want, e.Got)
}

// MissingCalibrationGroupError reports a required group or role key absent
// from the path mapping handed to bundle construction.
type MissingCalibrationGroupError struct {
	Group string
}

func (e *MissingCalibrationGroupError) Error() string {
	return fmt.Sprintf("missing calibration group %q", e.Group)
}
