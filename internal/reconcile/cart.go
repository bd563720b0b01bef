package reconcile

import (
	"sort"
	"strings"
	"sync"
)

// CartLine is one client-local cart entry. Lines with the same item and the
// same fingerprint coalesce; different fingerprints for the same item stay
// distinct.
type CartLine struct {
	ItemID            string
	Quantity          int
	Fingerprint       string
	SelectedExtraIDs  []string
	SelectedOptionIDs []string
}

// Fingerprint derives the key identifying a unique item + selections combo.
// Selection order does not matter.
func Fingerprint(itemID string, optionIDs, extraIDs []string) string {
	opts := append([]string(nil), optionIDs...)
	extras := append([]string(nil), extraIDs...)
	sort.Strings(opts)
	sort.Strings(extras)

	var b strings.Builder
	b.WriteString(itemID)
	b.WriteString("|o:")
	b.WriteString(strings.Join(opts, ","))
	b.WriteString("|e:")
	b.WriteString(strings.Join(extras, ","))
	return b.String()
}

type Cart struct {
	mu    sync.Mutex
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add puts quantity units of the item with the given selections into the
// cart, coalescing with an existing line of the same fingerprint.
func (c *Cart) Add(itemID string, optionIDs, extraIDs []string, quantity int) {
	if quantity <= 0 {
		return
	}
	fp := Fingerprint(itemID, optionIDs, extraIDs)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == itemID && c.lines[i].Fingerprint == fp {
			c.lines[i].Quantity += quantity
			return
		}
	}

	c.lines = append(c.lines, CartLine{
		ItemID:            itemID,
		Quantity:          quantity,
		Fingerprint:       fp,
		SelectedExtraIDs:  append([]string(nil), extraIDs...),
		SelectedOptionIDs: append([]string(nil), optionIDs...),
	})
}

// SetQuantity changes a line's quantity; zero or less removes the line.
func (c *Cart) SetQuantity(fingerprint string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Fingerprint != fingerprint {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return
	}
}

// RemoveItems drops every line whose item id is in ids. Used to resolve
// checkout findings by removing all affected lines.
func (c *Cart) RemoveItems(ids []string) {
	affected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		affected[id] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, line := range c.lines {
		if _, ok := affected[line.ItemID]; !ok {
			kept = append(kept, line)
		}
	}
	c.lines = kept
}

// Lines returns a copy of the current cart lines.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CartLine, len(c.lines))
	for i, line := range c.lines {
		out[i] = line
		out[i].SelectedExtraIDs = append([]string(nil), line.SelectedExtraIDs...)
		out[i].SelectedOptionIDs = append([]string(nil), line.SelectedOptionIDs...)
	}
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}
