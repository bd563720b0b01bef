package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customization selection modes.
const (
	CustomizationSingle   = "single"
	CustomizationMultiple = "multiple"
)

type Stall struct {
	OID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID          string             `bson:"stall_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

type MenuItem struct {
	OID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID             string             `bson:"item_id" json:"id"`
	StallID        string             `bson:"stall_id" json:"stallId"`
	Name           string             `bson:"name" json:"name"`
	Price          float64            `bson:"price" json:"price"`
	IsVeg          bool               `bson:"is_veg" json:"isVeg"`
	Category       string             `bson:"category" json:"category"`
	IsAvailable    bool               `bson:"is_available" json:"isAvailable"`
	Extras         []Extra            `bson:"extras" json:"extras"`
	Customizations []Customization    `bson:"customizations" json:"customizations"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Extra is an add-on embedded in its parent MenuItem document.
type Extra struct {
	ID          string  `bson:"extra_id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Price       float64 `bson:"price" json:"price"`
	IsVeg       bool    `bson:"is_veg" json:"isVeg"`
	IsAvailable bool    `bson:"is_available" json:"isAvailable"`
}

type Customization struct {
	ID       string   `bson:"custom_id" json:"id"`
	Name     string   `bson:"name" json:"name"`
	Required bool     `bson:"required" json:"required"`
	Type     string   `bson:"type" json:"type"`
	Options  []Option `bson:"options" json:"options"`
}

type Option struct {
	ID          string  `bson:"option_id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Price       float64 `bson:"price" json:"price"`
	IsVeg       bool    `bson:"is_veg" json:"isVeg"`
	IsAvailable bool    `bson:"is_available" json:"isAvailable"`
}

// ItemKey returns the cache key for a main item's availability flag.
func ItemKey(itemID string) string {
	return fmt.Sprintf("item:%s:available", itemID)
}

// ExtraKey returns the cache key for an add-on, scoped to its parent item.
func ExtraKey(itemID, extraID string) string {
	return fmt.Sprintf("item:%s:extra:%s:available", itemID, extraID)
}

// OptionKey returns the cache key for a customization option, scoped to item and group.
func OptionKey(itemID, customID, optionID string) string {
	return fmt.Sprintf("item:%s:custom:%s:option:%s:available", itemID, customID, optionID)
}
