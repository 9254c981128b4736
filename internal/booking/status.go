package booking

import (
	"fmt"

	"dashboard/internal/role"
	"dashboard/internal/session"
	"dashboard/internal/workflow"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
)

func All() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected}
}

func ParseStatus(s string) (Status, error) {
	if _, ok := Config(Status(s)); !ok {
		return "", fmt.Errorf("%w: booking %s", workflow.ErrUnknownStatus, s)
	}
	return Status(s), nil
}

var (
	hosts     = role.Of(role.Admin, role.Operator, role.Consultant, role.KOL)
	finishers = role.Of(role.Admin, role.Consultant, role.KOL)
	cancelers = role.Of(role.Admin, role.Operator, role.Customer)
)

var table = workflow.Table{
	{From: string(StatusPending), To: string(StatusConfirmed), Label: "Confirm", Roles: hosts, Kind: workflow.KindPlain},
	{From: string(StatusPending), To: string(StatusRejected), Label: "Reject", Roles: hosts, Kind: workflow.KindReason},
	{From: string(StatusPending), To: string(StatusCancelled), Label: "Cancel", Roles: cancelers, Kind: workflow.KindReason},
	{From: string(StatusConfirmed), To: string(StatusCompleted), Label: "Complete", Roles: finishers, Kind: workflow.KindEvidence},
	{From: string(StatusConfirmed), To: string(StatusCancelled), Label: "Cancel", Roles: cancelers, Kind: workflow.KindReason},
}

func Config(s Status) (workflow.StatusConfig, bool) {
	c := workflow.StatusConfig{Status: string(s)}
	switch s {
	case StatusPending:
		c.Label, c.Description, c.Palette = "Pending", "Waiting for the host to confirm the slot.", workflow.PaletteWarning
	case StatusConfirmed:
		c.Label, c.Description, c.Palette = "Confirmed", "Slot booked. Complete it with a session recording or notes.", workflow.PaletteInfo
	case StatusCompleted:
		c.Label, c.Description, c.Palette, c.Terminal = "Completed", "Session held.", workflow.PaletteSuccess, true
	case StatusCancelled:
		c.Label, c.Description, c.Palette, c.Terminal = "Cancelled", "Booking was cancelled.", workflow.PaletteDanger, true
	case StatusRejected:
		c.Label, c.Description, c.Palette, c.Terminal = "Rejected", "The host declined the booking.", workflow.PaletteDanger, true
	default:
		return workflow.StatusConfig{}, false
	}
	return c, true
}

func Actions(s Status, sess session.Session) []workflow.Transition {
	if _, ok := Config(s); !ok {
		return nil
	}
	return table.Offer(string(s), sess)
}

type flow struct{}

func Workflow() workflow.Workflow { return flow{} }

func (flow) Domain() workflow.Domain { return workflow.DomainBooking }

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
