package order

import (
	"fmt"

	"dashboard/internal/role"
	"dashboard/internal/session"
	"dashboard/internal/workflow"
)

type Status string

const (
	StatusJoinGroupBuying     Status = "JOIN_GROUP_BUYING"
	StatusToPay               Status = "TO_PAY"
	StatusWaitForConfirmation Status = "WAIT_FOR_CONFIRMATION"
	StatusPreparingOrder      Status = "PREPARING_ORDER"
	StatusToShip              Status = "TO_SHIP"
	StatusShipping            Status = "SHIPPING"
	StatusDelivered           Status = "DELIVERED"
	StatusCompleted           Status = "COMPLETED"
	StatusCancelled           Status = "CANCELLED"
	StatusReturning           Status = "RETURNING"
	StatusRefunded            Status = "REFUNDED"
	StatusReturnedFail        Status = "RETURNED_FAIL"
	StatusBrandReceived       Status = "BRAND_RECEIVED"
)

func All() []Status {
	return []Status{
		StatusJoinGroupBuying, StatusToPay, StatusWaitForConfirmation, StatusPreparingOrder,
		StatusToShip, StatusShipping, StatusDelivered, StatusCompleted, StatusCancelled,
		StatusReturning, StatusRefunded, StatusReturnedFail, StatusBrandReceived,
	}
}

func ParseStatus(s string) (Status, error) {
	if _, ok := Config(Status(s)); !ok {
		return "", fmt.Errorf("%w: order %s", workflow.ErrUnknownStatus, s)
	}
	return Status(s), nil
}

// brandSide fulfils the order. platform steps normally happen on their own (group filled,
// payment captured, carrier scan, customer receipt) and are only forced from the dashboard.
var (
	brandSide = role.Of(role.Admin, role.Operator, role.Manager, role.Staff)
	platform  = role.Of(role.Admin, role.Operator)
)

func next(from, to Status, label string, roles role.Set) *workflow.Transition {
	return &workflow.Transition{From: string(from), To: string(to), Label: label, Roles: roles, Kind: workflow.KindPlain}
}

// Config is the order lifecycle: one forward edge per status at most. CANCELLED, RETURNING and
// RETURNED_FAIL are entered by the backend (customer cancel, return request, failed return
// inspection) and have no dashboard edge.
func Config(s Status) (workflow.StatusConfig, bool) {
	c := workflow.StatusConfig{Status: string(s)}
	switch s {
	case StatusJoinGroupBuying:
		c.Label, c.Description, c.Palette = "Group buying", "Waiting for the group to fill before payment opens.", workflow.PaletteInfo
		c.Next = next(s, StatusToPay, "Close group", platform)
	case StatusToPay:
		c.Label, c.Description, c.Palette = "To pay", "Customer has not paid yet.", workflow.PaletteWarning
		c.Next = next(s, StatusWaitForConfirmation, "Mark as paid", platform)
	case StatusWaitForConfirmation:
		c.Label, c.Description, c.Palette = "Waiting for confirmation", "Paid; the brand must confirm the order.", workflow.PaletteWarning
		c.Next = next(s, StatusPreparingOrder, "Confirm order", brandSide)
	case StatusPreparingOrder:
		c.Label, c.Description, c.Palette = "Preparing", "The brand is packing the order.", workflow.PaletteInfo
		c.Next = next(s, StatusToShip, "Ready to ship", brandSide)
	case StatusToShip:
		c.Label, c.Description, c.Palette = "To ship", "Waiting for the carrier to pick up.", workflow.PaletteInfo
		c.Next = next(s, StatusShipping, "Hand over to carrier", brandSide)
	case StatusShipping:
		c.Label, c.Description, c.Palette = "Shipping", "On the way to the customer.", workflow.PaletteInfo
		c.Next = next(s, StatusDelivered, "Mark delivered", platform)
	case StatusDelivered:
		c.Label, c.Description, c.Palette = "Delivered", "Delivered; waiting for the customer to confirm receipt.", workflow.PaletteSuccess
		c.Next = next(s, StatusCompleted, "Complete order", platform)
	case StatusCompleted:
		c.Label, c.Description, c.Palette, c.Terminal = "Completed", "Order closed.", workflow.PaletteSuccess, true
	case StatusCancelled:
		c.Label, c.Description, c.Palette, c.Terminal = "Cancelled", "Order was cancelled.", workflow.PaletteDanger, true
	case StatusReturning:
		c.Label, c.Description, c.Palette = "Returning", "Customer is sending the items back.", workflow.PaletteWarning
		c.Next = next(s, StatusBrandReceived, "Confirm return received", brandSide)
	case StatusBrandReceived:
		c.Label, c.Description, c.Palette = "Return received", "The brand has the returned items; refund pending.", workflow.PaletteWarning
		c.Next = next(s, StatusRefunded, "Refund", brandSide)
	case StatusRefunded:
		c.Label, c.Description, c.Palette, c.Terminal = "Refunded", "Money returned to the customer.", workflow.PaletteNeutral, true
	case StatusReturnedFail:
		c.Label, c.Description, c.Palette, c.Terminal = "Return failed", "The return was not accepted.", workflow.PaletteDanger, true
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

func (flow) Domain() workflow.Domain { return workflow.DomainOrder }

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
