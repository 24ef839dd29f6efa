// Package orderrepo persists the order aggregate. Items and the scheduled payload
// are stored as jsonb columns; money is stored in minor units.
package orderrepo

import (
	"encoding/json"
	"time"

	"orderlifecycle/internal/core/domain/model/kernel"
	"orderlifecycle/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// status and scheduled_for are indexed for the two background scans.
type OrderDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID  `gorm:"type:uuid;index;not null"`
	RestaurantID       string     `gorm:"index;not null"`
	Items              []byte     `gorm:"type:jsonb;not null"`
	Status             string     `gorm:"index;not null"`
	Pricing            PricingDTO `gorm:"embedded"`
	DeliveryAddress    string
	PaymentMethod      string `gorm:"not null"`
	PaymentReference   string
	CouponID           string
	IsScheduled        bool       `gorm:"not null"`
	ScheduledFor       *time.Time `gorm:"index"`
	ScheduledPayload   []byte     `gorm:"type:jsonb"`
	CancellationReason string
	CancellationFee    *int64
	CancelledAt        *time.Time
	CreatedAt          time.Time `gorm:"index;not null;autoCreateTime:false"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime:false"`
	Version            int64     `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// PricingDTO is the embedded money snapshot, all in minor units.
type PricingDTO struct {
	Subtotal       int64 `gorm:"not null"`
	DeliveryFee    int64 `gorm:"not null"`
	Tax            int64 `gorm:"not null"`
	TipAmount      int64 `gorm:"not null"`
	DiscountAmount int64 `gorm:"not null"`
	AppliedPenalty int64 `gorm:"not null"`
	Total          int64 `gorm:"not null"`
}

type itemDTO struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

func fromDomain(o *order.Order) (OrderDTO, error) {
	items := make([]itemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, itemDTO{
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Minor(),
		})
	}
	rawItems, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	var rawPayload []byte
	if payload := o.Payload(); payload != nil {
		rawPayload, err = order.MarshalPayload(*payload)
		if err != nil {
			return OrderDTO{}, err
		}
	}

	var fee *int64
	if f := o.CancellationFee(); f != nil {
		minor := f.Minor()
		fee = &minor
	}

	p := o.Pricing()
	return OrderDTO{
		ID:           o.ID().Bytes(),
		UserID:       o.UserID().Bytes(),
		RestaurantID: o.RestaurantID(),
		Items:        rawItems,
		Status:       o.Status().String(),
		Pricing: PricingDTO{
			Subtotal:       p.Subtotal.Minor(),
			DeliveryFee:    p.DeliveryFee.Minor(),
			Tax:            p.Tax.Minor(),
			TipAmount:      p.Tip.Minor(),
			DiscountAmount: p.Discount.Minor(),
			AppliedPenalty: p.Penalty.Minor(),
			Total:          p.Total.Minor(),
		},
		DeliveryAddress:    o.DeliveryAddress(),
		PaymentMethod:      string(o.PaymentMethod()),
		PaymentReference:   o.PaymentReference(),
		CouponID:           o.CouponID(),
		IsScheduled:        o.IsScheduled(),
		ScheduledFor:       o.ScheduledFor(),
		ScheduledPayload:   rawPayload,
		CancellationReason: o.CancellationReason(),
		CancellationFee:    fee,
		CancelledAt:        o.CancelledAt(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
		Version:            o.Version(),
	}, nil
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	var rawItems []itemDTO
	if len(dto.Items) > 0 {
		if err = json.Unmarshal(dto.Items, &rawItems); err != nil {
			return nil, err
		}
	}
	items := make([]order.LineItem, 0, len(rawItems))
	for _, raw := range rawItems {
		item, itemErr := order.NewLineItem(raw.ProductID, raw.Name, raw.Quantity, kernel.Money(raw.UnitPrice))
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var payload *order.ScheduledPayload
	if len(dto.ScheduledPayload) > 0 {
		decoded, payloadErr := order.UnmarshalPayload(dto.ScheduledPayload)
		if payloadErr != nil {
			return nil, payloadErr
		}
		payload = &decoded
	}

	var fee *kernel.Money
	if dto.CancellationFee != nil {
		f := kernel.Money(*dto.CancellationFee)
		fee = &f
	}

	return order.RestoreOrder(order.RestoreState{
		ID:           id,
		UserID:       userID,
		RestaurantID: dto.RestaurantID,
		Items:        items,
		Status:       order.Status(dto.Status),
		Pricing: order.Pricing{
			Subtotal:    kernel.Money(dto.Pricing.Subtotal),
			DeliveryFee: kernel.Money(dto.Pricing.DeliveryFee),
			Tax:         kernel.Money(dto.Pricing.Tax),
			Tip:         kernel.Money(dto.Pricing.TipAmount),
			Discount:    kernel.Money(dto.Pricing.DiscountAmount),
			Penalty:     kernel.Money(dto.Pricing.AppliedPenalty),
			Total:       kernel.Money(dto.Pricing.Total),
		},
		DeliveryAddress:    dto.DeliveryAddress,
		PaymentMethod:      order.PaymentMethod(dto.PaymentMethod),
		PaymentReference:   dto.PaymentReference,
		CouponID:           dto.CouponID,
		IsScheduled:        dto.IsScheduled,
		ScheduledFor:       utcPtr(dto.ScheduledFor),
		Payload:            payload,
		CancellationReason: dto.CancellationReason,
		CancellationFee:    fee,
		CancelledAt:        utcPtr(dto.CancelledAt),
		CreatedAt:          dto.CreatedAt.UTC(),
		UpdatedAt:          dto.UpdatedAt.UTC(),
		Version:            dto.Version,
	})
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
