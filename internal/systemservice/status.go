// Package systemservice holds the lifecycle of platform services (livestream slots, ad
// placements) that brands request and operators fulfil.
package systemservice

import (
	"fmt"

	"dashboard/internal/role"
	"dashboard/internal/session"
	"dashboard/internal/workflow"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAccepted   Status = "ACCEPTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

func All() []Status {
	return []Status{StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled}
}

func ParseStatus(s string) (Status, error) {
	if _, ok := Config(Status(s)); !ok {
		return "", fmt.Errorf("%w: system service %s", workflow.ErrUnknownStatus, s)
	}
	return Status(s), nil
}

var operators = role.Of(role.Admin, role.Operator)

func Config(s Status) (workflow.StatusConfig, bool) {
	c := workflow.StatusConfig{Status: string(s)}
	switch s {
	case StatusPending:
		c.Label, c.Description, c.Palette = "Pending", "Request received; an operator has to accept it.", workflow.PaletteWarning
		c.Next = &workflow.Transition{From: string(s), To: string(StatusAccepted), Label: "Accept", Roles: operators, Kind: workflow.KindPlain}
	case StatusAccepted:
		c.Label, c.Description, c.Palette = "Accepted", "Scheduled; work has not started.", workflow.PaletteInfo
		c.Next = &workflow.Transition{From: string(s), To: string(StatusInProgress), Label: "Start", Roles: operators, Kind: workflow.KindPlain}
	case StatusInProgress:
		c.Label, c.Description, c.Palette = "In progress", "Being delivered. Attach proof when done.", workflow.PaletteInfo
		c.Next = &workflow.Transition{From: string(s), To: string(StatusCompleted), Label: "Complete", Roles: operators, Kind: workflow.KindEvidence}
	case StatusCompleted:
		c.Label, c.Description, c.Palette, c.Terminal = "Completed", "Service delivered.", workflow.PaletteSuccess, true
	case StatusCancelled:
		c.Label, c.Description, c.Palette, c.Terminal = "Cancelled", "Service request was cancelled.", workflow.PaletteDanger, true
	default:
		return workflow.StatusConfig{}, false
	}
	return c, true
}

func Actions(s Status, sess session.Session) []workflow.Transition {
	c, ok := Config(s)
	if !ok {
		return nil
	}
	return workflow.Linear(c, sess)
}

type flow struct{}

func Workflow() workflow.Workflow { return flow{} }

func (flow) Domain() workflow.Domain { return workflow.DomainSystemService }

func (flow) Statuses() []string {
	out := make([]string, 0, len(All()))
	for _, s := range All() {
		out = append(out, string(s))
	}
	return out
}

func (flow) Config(status string) (workflow.StatusConfig, bool) { return Config(Status(status)) }

func (flow) Actions(status string, s session.Session) []workflow.Transition {
	return Actions(Status(status), s)
}
