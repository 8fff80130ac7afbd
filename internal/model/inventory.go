// Package model defines the inventory shapes shared across the scrape pipeline.
package model

// DefaultSupplier is the supplier recorded on items that arrive without one.
const DefaultSupplier = "MobileSentrix"

// InventoryItem is a single product record extracted from a category page.
// Optional fields are pointers so absent values survive round-trips as null
// rather than zero.
type InventoryItem struct {
	ItemType     string   `json:"item_type"`
	Manufacturer string   `json:"manufacturer"`
	Name         string   `json:"name"`
	SKU          string   `json:"sku"`
	InstockQty   *int     `json:"instock_qty,omitempty"`
	Cost         *float64 `json:"cost,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Condition    *string  `json:"condition,omitempty"`
	Supplier     string   `json:"supplier"`
}

// Inventory is the container for all items extracted from one category.
type Inventory struct {
	Items []InventoryItem `json:"items"`
}

// Normalize fills defaulted fields on every item in place. Engines call it
// after decoding so artifacts are uniform regardless of what the extractor
// returned.
func (inv *Inventory) Normalize() {
	for i := range inv.Items {
		if inv.Items[i].Supplier == "" {
			inv.Items[i].Supplier = DefaultSupplier
		}
	}
}
