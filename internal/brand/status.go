package brand

import (
	"fmt"

	"dashboard/internal/role"
	"dashboard/internal/session"
	"dashboard/internal/workflow"
)

type Status string

const (
	StatusPendingReview         Status = "PENDING_REVIEW"
	StatusNeedUpdate            Status = "NEED_UPDATE"
	StatusPreApprovedForMeeting Status = "PRE_APPROVED_FOR_MEETING"
	StatusActive                Status = "ACTIVE"
	StatusInactive              Status = "INACTIVE"
	StatusDenied                Status = "DENIED"
	StatusBanned                Status = "BANNED"
)

func All() []Status {
	return []Status{
		StatusPendingReview, StatusNeedUpdate, StatusPreApprovedForMeeting,
		StatusActive, StatusInactive, StatusDenied, StatusBanned,
	}
}

func ParseStatus(s string) (Status, error) {
	if _, ok := Config(Status(s)); !ok {
		return "", fmt.Errorf("%w: brand %s", workflow.ErrUnknownStatus, s)
	}
	return Status(s), nil
}

var (
	reviewers = role.Of(role.Admin, role.Operator)
	owners    = role.Of(role.Manager)
)

func edge(from, to Status, label string, roles role.Set, kind workflow.Kind) workflow.Transition {
	return workflow.Transition{From: string(from), To: string(to), Label: label, Roles: roles, Kind: kind}
}

var table = workflow.Table{
	edge(StatusPendingReview, StatusPreApprovedForMeeting, "Approve for meeting", reviewers, workflow.KindPlain),
	edge(StatusPendingReview, StatusNeedUpdate, "Request update", reviewers, workflow.KindReason),
	edge(StatusPendingReview, StatusDenied, "Deny", reviewers, workflow.KindReason),
	edge(StatusNeedUpdate, StatusPendingReview, "Resubmit", owners, workflow.KindPlain),
	edge(StatusPreApprovedForMeeting, StatusActive, "Activate", reviewers, workflow.KindPlain),
	edge(StatusPreApprovedForMeeting, StatusDenied, "Deny", reviewers, workflow.KindReason),
	edge(StatusActive, StatusInactive, "Deactivate", reviewers, workflow.KindReason),
	edge(StatusActive, StatusBanned, "Ban", reviewers, workflow.KindReason),
	edge(StatusInactive, StatusActive, "Reactivate", reviewers, workflow.KindPlain),
	edge(StatusInactive, StatusBanned, "Ban", reviewers, workflow.KindReason),
}

func Config(s Status) (workflow.StatusConfig, bool) {
	c := workflow.StatusConfig{Status: string(s)}
	switch s {
	case StatusPendingReview:
		c.Label, c.Description, c.Palette = "Pending review", "Registration submitted; waiting for the platform team.", workflow.PaletteWarning
	case StatusNeedUpdate:
		c.Label, c.Description, c.Palette = "Needs update", "The platform asked for corrections to the registration.", workflow.PaletteWarning
	case StatusPreApprovedForMeeting:
		c.Label, c.Description, c.Palette = "Pre-approved", "Approved for an onboarding interview.", workflow.PaletteInfo
	case StatusActive:
		c.Label, c.Description, c.Palette = "Active", "Brand can sell on the platform.", workflow.PaletteSuccess
	case StatusInactive:
		c.Label, c.Description, c.Palette = "Inactive", "Brand is temporarily disabled.", workflow.PaletteNeutral
	case StatusDenied:
		c.Label, c.Description, c.Palette, c.Terminal = "Denied", "Registration was refused.", workflow.PaletteDanger, true
	case StatusBanned:
		c.Label, c.Description, c.Palette, c.Terminal = "Banned", "Brand was removed from the platform.", workflow.PaletteDanger, true
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

func (flow) Domain() workflow.Domain { return workflow.DomainBrand }

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
