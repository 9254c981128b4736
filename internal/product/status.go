package product

import (
	"fmt"

	"dashboard/internal/role"
	"dashboard/internal/session"
	"dashboard/internal/workflow"
)

type Status string

const (
	StatusUnPublished Status = "UN_PUBLISHED"
	StatusOfficial    Status = "OFFICIAL"
	StatusFlashSale   Status = "FLASH_SALE"
	StatusOutOfStock  Status = "OUT_OF_STOCK"
	StatusInactive    Status = "INACTIVE"
	StatusBanned      Status = "BANNED"
)

func All() []Status {
	return []Status{StatusUnPublished, StatusOfficial, StatusFlashSale, StatusOutOfStock, StatusInactive, StatusBanned}
}

func ParseStatus(s string) (Status, error) {
	if _, ok := Config(Status(s)); !ok {
		return "", fmt.Errorf("%w: product %s", workflow.ErrUnknownStatus, s)
	}
	return Status(s), nil
}

// Product statuses have no single next step; see rules.
func Config(s Status) (workflow.StatusConfig, bool) {
	c := workflow.StatusConfig{Status: string(s)}
	switch s {
	case StatusUnPublished:
		c.Label, c.Description, c.Palette = "Unpublished", "Hidden from the storefront.", workflow.PaletteNeutral
	case StatusOfficial:
		c.Label, c.Description, c.Palette = "Official", "Listed and purchasable.", workflow.PaletteSuccess
	case StatusFlashSale:
		c.Label, c.Description, c.Palette = "Flash sale", "Listed at a time-limited price.", workflow.PaletteInfo
	case StatusOutOfStock:
		c.Label, c.Description, c.Palette = "Out of stock", "Listed but not purchasable until restocked.", workflow.PaletteWarning
	case StatusInactive:
		c.Label, c.Description, c.Palette = "Inactive", "Disabled by the brand.", workflow.PaletteNeutral
	case StatusBanned:
		c.Label, c.Description, c.Palette = "Banned", "Removed by the platform for a policy violation.", workflow.PaletteDanger
	default:
		return workflow.StatusConfig{}, false
	}
	return c, true
}

var moderators = role.Of(role.Admin, role.Operator)

type rule func(s Status, r role.Role) (workflow.Transition, bool)

// rules are evaluated in order and each contributes at most one action. Unban only matches
// BANNED and Ban never does, so the two are never offered together.
var rules = []rule{
	func(s Status, _ role.Role) (workflow.Transition, bool) {
		if s != StatusUnPublished && s != StatusInactive {
			return workflow.Transition{}, false
		}
		return workflow.Transition{From: string(s), To: string(StatusOfficial), Label: "Publish", Roles: role.Any(), Kind: workflow.KindPlain}, true
	},
	func(s Status, _ role.Role) (workflow.Transition, bool) {
		if s != StatusOfficial && s != StatusFlashSale && s != StatusOutOfStock {
			return workflow.Transition{}, false
		}
		return workflow.Transition{From: string(s), To: string(StatusUnPublished), Label: "Unpublish", Roles: role.Any(), Kind: workflow.KindPlain}, true
	},
	func(s Status, r role.Role) (workflow.Transition, bool) {
		if s != StatusBanned || !moderators.Contains(r) {
			return workflow.Transition{}, false
		}
		return workflow.Transition{From: string(s), To: string(StatusUnPublished), Label: "Unban", Roles: moderators, Kind: workflow.KindPlain}, true
	},
	func(s Status, r role.Role) (workflow.Transition, bool) {
		if !moderators.Contains(r) || s == StatusInactive || s == StatusBanned {
			return workflow.Transition{}, false
		}
		return workflow.Transition{From: string(s), To: string(StatusBanned), Label: "Ban", Roles: moderators, Kind: workflow.KindReason}, true
	},
}

func Actions(s Status, sess session.Session) []workflow.Transition {
	if _, ok := Config(s); !ok {
		return nil
	}
	var out []workflow.Transition
	for _, r := range rules {
		if tr, ok := r(s, sess.Role); ok && sess.Allowed(tr.Roles) {
			out = append(out, tr)
		}
	}
	return out
}

type flow struct{}

func Workflow() workflow.Workflow { return flow{} }

func (flow) Domain() workflow.Domain { return workflow.DomainProduct }

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
