package workflow

import "strings"

// Request is one of Advance, Reject or Complete. Each transition Kind accepts exactly one variant.
type Request interface {
	Target() string
	isRequest()
}

type Advance struct {
	To string
}

type Reject struct {
	To     string
	Reason string
}

type Complete struct {
	To            string
	EvidenceFiles []string
	ResultNote    string
}

func (r Advance) Target() string  { return r.To }
func (r Reject) Target() string   { return r.To }
func (r Complete) Target() string { return r.To }

func (Advance) isRequest()  {}
func (Reject) isRequest()   {}
func (Complete) isRequest() {}

// Validate checks req against the transition locally, before any network call.
func Validate(tr Transition, req Request) error {
	switch tr.Kind {
	case KindReason:
		r, ok := req.(Reject)
		if !ok || strings.TrimSpace(r.Reason) == "" {
			return ValidationError{Field: "reason", Code: "REASON_REQUIRED", Message: "reason is required"}
		}
	case KindEvidence:
		c, ok := req.(Complete)
		if !ok || len(nonBlank(c.EvidenceFiles)) == 0 {
			return ValidationError{Field: "evidenceFiles", Code: "EVIDENCE_REQUIRED", Message: "at least one evidence file is required"}
		}
	default:
		if _, ok := req.(Advance); !ok {
			return ValidationError{Field: "status", Code: "REQUEST_KIND_MISMATCH", Message: "transition to " + tr.To + " takes no reason or evidence"}
		}
	}
	return nil
}

// FromForm picks the variant implied by which optional form fields were sent. A blank reason
// counts as no reason.
func FromForm(to string, reason *string, evidenceFiles []string, resultNote string) Request {
	switch {
	case len(evidenceFiles) > 0:
		return Complete{To: to, EvidenceFiles: nonBlank(evidenceFiles), ResultNote: strings.TrimSpace(resultNote)}
	case reason != nil && strings.TrimSpace(*reason) != "":
		return Reject{To: to, Reason: strings.TrimSpace(*reason)}
	default:
		return Advance{To: to}
	}
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
