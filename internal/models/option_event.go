package models

// Event actions, one per successful lifecycle transition.
const (
	ActionOptionOpened           = "option_opened"
	ActionOptionBought           = "option_bought"
	ActionOptionExercised        = "option_exercised"
	ActionOptionExpiredWorthless = "option_expired_worthless"
	ActionFundsRetrieved         = "funds_retrieved"
)

// OptionEvent is the append-only audit record of a lifecycle transition.
// Events are written inside the operation's transaction, so a rolled-back
// operation leaves no event behind.
type OptionEvent struct {
	Base
	OptionID uint   `gorm:"not null;index" json:"option_id"`
	TraderID uint   `gorm:"not null" json:"trader_id"`
	Action   string `gorm:"not null" json:"action"`
	Details  string `json:"details,omitempty"`
}
