package models

const (
	StockAvailable = "available"
	StockLow       = "low"
	StockOut       = "out"
)

// InventoryItem status is operator-set; it is not derived from Quantity.
type InventoryItem struct {
	Base     `bson:",inline"`
	Name     string  `bson:"name" json:"name"`
	Category string  `bson:"category,omitempty" json:"category,omitempty"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit,omitempty" json:"unit,omitempty"`
	Price    float64 `bson:"price,omitempty" json:"price,omitempty"`
	Status   string  `bson:"status" json:"status"`
	Supplier string  `bson:"supplier,omitempty" json:"supplier,omitempty"`
}

type InventoryItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity" binding:"min=0"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price" binding:"omitempty,gte=0"`
	Status   string  `json:"status" binding:"omitempty,oneof=available low out"`
	Supplier string  `json:"supplier"`
}

func (r InventoryItemRequest) Model() InventoryItem {
	status := r.Status
	if status == "" {
		status = StockAvailable
	}

	return InventoryItem{
		Name:     r.Name,
		Category: r.Category,
		Quantity: r.Quantity,
		Unit:     r.Unit,
		Price:    r.Price,
		Status:   status,
		Supplier: r.Supplier,
	}
}
