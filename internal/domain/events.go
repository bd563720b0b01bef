package domain

// Stock update target kinds.
const (
	StockTypeItem   = "item"
	StockTypeExtra  = "extra"
	StockTypeOption = "option"
)

// StockUpdateEvent is the transient message published when an availability flag
// flips. It is never persisted; a client disconnected at publish time simply
// never sees it and converges by its next poll or reload.
type StockUpdateEvent struct {
	Type         string `json:"type"`
	StallID      string `json:"stallId"`
	ItemID       string `json:"itemId"`
	ExtraID      string `json:"extraId,omitempty"`
	CustomID     string `json:"customId,omitempty"`
	OptionID     string `json:"optionId,omitempty"`
	Availability bool   `json:"availability"`
	Timestamp    int64  `json:"timestamp"`
}

// Key derives the availability cache key matching the event's target.
func (e StockUpdateEvent) Key() string {
	switch e.Type {
	case StockTypeExtra:
		return ExtraKey(e.ItemID, e.ExtraID)
	case StockTypeOption:
		return OptionKey(e.ItemID, e.CustomID, e.OptionID)
	default:
		return ItemKey(e.ItemID)
	}
}

// StallVisibilityEvent announces a stall going active or inactive. It is
// broadcast to every connected session, not just stall-page subscribers.
type StallVisibilityEvent struct {
	StallID   string `json:"stallId"`
	StallName string `json:"stallName"`
	IsActive  bool   `json:"isActive"`
	Timestamp int64  `json:"timestamp"`
}
