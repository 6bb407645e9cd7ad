package model

// CaptureState is a state of the scan acquisition loop.
type CaptureState string

const (
	CaptureIdle       CaptureState = "idle"
	CaptureAttempting CaptureState = "attempting"
	CaptureSucceeded  CaptureState = "succeeded"
	CaptureExhausted  CaptureState = "exhausted"
	CaptureFatal      CaptureState = "fatal"
)

// Terminal reports whether no further attempts follow s.
func (s CaptureState) Terminal() bool {
	return s == CaptureSucceeded || s == CaptureExhausted || s == CaptureFatal
}

// AttemptKind classifies a single call to the sensor's acquire primitive.
type AttemptKind int

const (
	AttemptSuccess AttemptKind = iota
	AttemptRetryable
	AttemptFatal
)

// AttemptResult is the tagged result of one capture attempt.
type AttemptResult struct {
	Kind   AttemptKind
	Sample Sample
	Reason string
	Code   int
}

// ClassifyAttempt turns a sensor Acquire result into an AttemptResult.
func ClassifyAttempt(sample Sample, err error) AttemptResult {
	switch {
	case err == nil:
		return AttemptResult{Kind: AttemptSuccess, Sample: sample}
	case IsRetryable(err):
		return AttemptResult{Kind: AttemptRetryable, Reason: err.Error()}
	default:
		return AttemptResult{Kind: AttemptFatal, Reason: err.Error(), Code: FatalCode(err)}
	}
}

// CaptureOutcome is the aggregate result of one bounded retry sequence.
type CaptureOutcome struct {
	State    CaptureState
	Sample   Sample
	Attempts int
}

// Captured reports whether the outcome carries a usable template.
func (o CaptureOutcome) Captured() bool {
	return o.State == CaptureSucceeded
}

// ScanContext describes why a capture is running. It is attached to events.
type ScanContext struct {
	Operation string
	Identity  string
	// Scan is the 1-based index of the capture within the operation, Of is the total.
	Scan int
	Of   int
}

const (
	OperationVerify = "verify"
	OperationEnroll = "enroll"
)
