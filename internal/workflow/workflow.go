package workflow

import (
	"dashboard/internal/role"
	"dashboard/internal/session"
)

type Domain string

const (
	DomainOrder         Domain = "orders"
	DomainProduct       Domain = "products"
	DomainBooking       Domain = "bookings"
	DomainSystemService Domain = "system-services"
	DomainBrand         Domain = "brands"
)

// Kind says which request variant a transition accepts.
type Kind string

const (
	KindPlain    Kind = "plain"
	KindReason   Kind = "reason"
	KindEvidence Kind = "evidence"
)

// Palette holds the design-system color tokens for a status badge.
type Palette struct {
	Border     string `json:"border"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

type Transition struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Label string   `json:"label"`
	Roles role.Set `json:"roles"`
	Kind  Kind     `json:"kind"`
}

type StatusConfig struct {
	Status      string      `json:"status"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Palette     Palette     `json:"palette"`
	Terminal    bool        `json:"terminal"`
	Next        *Transition `json:"next,omitempty"`
}

// Workflow is the registry and transition table of one entity domain.
type Workflow interface {
	Domain() Domain
	Statuses() []string
	Config(status string) (StatusConfig, bool)
	Actions(status string, s session.Session) []Transition
}

// Linear offers cfg.Next when the session role is authorized.
func Linear(cfg StatusConfig, s session.Session) []Transition {
	if cfg.Next == nil || !s.Allowed(cfg.Next.Roles) {
		return nil
	}
	return []Transition{*cfg.Next}
}

// Table is an ordered list of transitions; Offer keeps definition order.
type Table []Transition

func (t Table) Offer(status string, s session.Session) []Transition {
	var out []Transition
	for _, tr := range t {
		if tr.From == status && s.Allowed(tr.Roles) {
			out = append(out, tr)
		}
	}
	return out
}

// Find returns the offered transition from status to target, if any.
func Find(w Workflow, status, target string, s session.Session) (Transition, bool) {
	if _, ok := w.Config(status); !ok {
		return Transition{}, false
	}
	for _, tr := range w.Actions(status, s) {
		if tr.To == target {
			return tr, true
		}
	}
	return Transition{}, false
}

// KindOf returns the request kind of the transitions into target that s may take from any
// status. ok is false when none leads there or when those edges disagree.
func KindOf(w Workflow, target string, s session.Session) (Kind, bool) {
	var kind Kind
	found := false
	for _, status := range w.Statuses() {
		for _, tr := range w.Actions(status, s) {
			if tr.To != target {
				continue
			}
			if found && tr.Kind != kind {
				return "", false
			}
			kind, found = tr.Kind, true
		}
	}
	return kind, found
}

var (
	PaletteNeutral = Palette{Border: "gray-300", Background: "gray-50", Text: "gray-700"}
	PaletteInfo    = Palette{Border: "blue-300", Background: "blue-50", Text: "blue-700"}
	PaletteWarning = Palette{Border: "amber-300", Background: "amber-50", Text: "amber-700"}
	PaletteSuccess = Palette{Border: "green-300", Background: "green-50", Text: "green-700"}
	PaletteDanger  = Palette{Border: "red-300", Background: "red-50", Text: "red-700"}
)
