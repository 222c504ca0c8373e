package payments

// MetadataPendingPaymentID is the checkout session metadata key carrying the
// correlation token between provider events and local pending payments.
const MetadataPendingPaymentID = "pending_payment_id"

// CheckoutCompleted is the normalized shape of a provider "checkout
// completed" event after signature verification and payload decoding.
type CheckoutCompleted struct {
	EventID          string
	EventType        string
	SessionID        string
	PayerEmail       string
	PayerName        string
	AmountTotalCents int64
	Currency         string
	PendingPaymentID string
	RawPayload       []byte
}

// Step status values. A skipped step was intentionally not run (e.g. no
// correlation id); a failed step was attempted and did not succeed.
const (
	StepOK      = "ok"
	StepSkipped = "skipped"
	StepFailed  = "failed"
)

// Step severities. SeverityAlert marks the failure classes that leave
// financial state stale and should page someone.
const (
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityAlert = "alert"
)

// StepResult records the outcome of one pipeline step.
type StepResult struct {
	Name     string
	Status   string
	Severity string
	Err      error
}

func stepOK(name string) StepResult {
	return StepResult{Name: name, Status: StepOK, Severity: SeverityInfo}
}

func stepSkipped(name string) StepResult {
	return StepResult{Name: name, Status: StepSkipped, Severity: SeverityInfo}
}

func stepFailed(name, severity string, err error) StepResult {
	return StepResult{Name: name, Status: StepFailed, Severity: severity, Err: err}
}

// Pipeline outcomes. Every outcome acknowledges the webhook with HTTP 200;
// only signature and configuration failures ever produce a non-200, and
// those never reach the pipeline.
const (
	OutcomeCompleted = "completed"
	OutcomePartial   = "partial"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
)

// Result is the full pipeline outcome for one delivery.
type Result struct {
	Outcome   string
	PaymentID string
	Steps     []StepResult
}

func (r *Result) add(step StepResult) {
	r.Steps = append(r.Steps, step)
}

// Step returns the result for a named step, if it ran.
func (r *Result) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}
