package ir

import "fmt"

// EntityID is an opaque entity identifier, e.g. "customer_3".
type EntityID string

// EntityType is the fixed type tag of an entity.
type EntityType string

const (
	// Customer entities hold a budget and purchase history.
	Customer EntityType = "Customer"
	// Employee entities manage books and restock them.
	Employee EntityType = "Employee"
	// Book entities are the inventory items.
	Book EntityType = "Book"
)

// EntityTypes lists every entity type in declaration order.
var EntityTypes = []EntityType{Customer, Employee, Book}

// ParseEntityType validates an entity type name.
func ParseEntityType(s string) (EntityType, error) {
	for _, t := range EntityTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}

// Entity is an identified, typed participant. The type never changes.
type Entity struct {
	ID   EntityID   `json:"id"`
	Type EntityType `json:"type"`
}

// String renders the entity as "Type(id)".
func (e Entity) String() string {
	return fmt.Sprintf("%s(%s)", e.Type, e.ID)
}

// Label is the name of a derived classification.
type Label string

// Derived labels produced by the rule engine.
const (
	PremiumCustomer        Label = "PremiumCustomer"
	LowBudgetCustomer      Label = "LowBudgetCustomer"
	HighValueBook          Label = "HighValueBook"
	LowStockBook           Label = "LowStockBook"
	OverstockedBook        Label = "OverstockedBook"
	ActiveCustomer         Label = "ActiveCustomer"
	RestockRequired        Label = "RestockRequired"
	DiscountEligible       Label = "DiscountEligible"
	HighPerformingEmployee Label = "HighPerformingEmployee"
)

// Attribute names of the closed entity schema.
const (
	AttrName             = "name"
	AttrBudget           = "budget"
	AttrPurchases        = "purchases"
	AttrSatisfaction     = "satisfaction"
	AttrRole             = "role"
	AttrManages          = "manages"
	AttrPerformance      = "performance"
	AttrRestocks         = "restocks"
	AttrTitle            = "title"
	AttrAuthor           = "author"
	AttrGenre            = "genre"
	AttrPrice            = "price"
	AttrBasePrice        = "base_price"
	AttrQuantity         = "quantity"
	AttrRestockThreshold = "restock_threshold"
)
