package order

import "time"

// SnapshotItem is the published form of a line item.
type SnapshotItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// Snapshot is the normalized view of an order sent with order_update and order_created.
// Amounts are rendered as decimal strings in major units.
type Snapshot struct {
	ID                 string         `json:"id"`
	UserID             string         `json:"userId"`
	RestaurantID       string         `json:"restaurantId"`
	Status             Status         `json:"status"`
	Items              []SnapshotItem `json:"items"`
	Subtotal           string         `json:"subtotal"`
	DeliveryFee        string         `json:"deliveryFee"`
	Tax                string         `json:"tax"`
	TipAmount          string         `json:"tipAmount"`
	DiscountAmount     string         `json:"discountAmount"`
	AppliedPenalty     string         `json:"appliedPenalty"`
	Total              string         `json:"total"`
	DeliveryAddress    string         `json:"deliveryAddress"`
	PaymentMethod      PaymentMethod  `json:"paymentMethod"`
	IsScheduled        bool           `json:"isScheduled"`
	ScheduledFor       *time.Time     `json:"scheduledFor,omitempty"`
	CancellationReason string         `json:"cancellationReason,omitempty"`
	CancellationFee    *string        `json:"cancellationFee,omitempty"`
	CancelledAt        *time.Time     `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// Snapshot builds the published view of o.
func (o *Order) Snapshot() Snapshot {
	items := make([]SnapshotItem, 0, len(o.items))
	for _, item := range o.items {
		items = append(items, SnapshotItem{
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
		})
	}

	s := Snapshot{
		ID:                 o.id.String(),
		UserID:             o.userID.String(),
		RestaurantID:       o.restaurantID,
		Status:             o.status,
		Items:              items,
		Subtotal:           o.pricing.Subtotal.String(),
		DeliveryFee:        o.pricing.DeliveryFee.String(),
		Tax:                o.pricing.Tax.String(),
		TipAmount:          o.pricing.Tip.String(),
		DiscountAmount:     o.pricing.Discount.String(),
		AppliedPenalty:     o.pricing.Penalty.String(),
		Total:              o.pricing.Total.String(),
		DeliveryAddress:    o.deliveryAddress,
		PaymentMethod:      o.paymentMethod,
		IsScheduled:        o.isScheduled,
		ScheduledFor:       o.scheduledFor,
		CancellationReason: o.cancellationReason,
		CancelledAt:        o.cancelledAt,
		CreatedAt:          o.createdAt,
		UpdatedAt:          o.updatedAt,
	}
	if o.cancellationFee != nil {
		fee := o.cancellationFee.String()
		s.CancellationFee = &fee
	}
	return s
}
