package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"orderlifecycle/internal/pkg/errs"
)

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

func (m PaymentMethod) Validate() error {
	if m != PaymentCard && m != PaymentCash {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not supported", string(m)))
	}
	return nil
}

// RequestedItem is a line item as the client asked for it, before catalog resolution.
// UnitPrice is the client-supplied price in minor units; it is authoritative only for
// marketplace products that do not exist in the catalog yet.
type RequestedItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// ScheduledPayload is the snapshot a deferred order keeps until activation.
type ScheduledPayload struct {
	Items            []RequestedItem `json:"items"`
	DeliveryAddress  string          `json:"deliveryAddress"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	PaymentReference string          `json:"paymentReference,omitempty"`
}

// Validate checks the payload can later be materialized.
func (p ScheduledPayload) Validate() error {
	var errList []error
	if len(p.Items) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("items"))
	}
	for idx, item := range p.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			errList = append(errList, errs.NewValueIsRequiredError(fmt.Sprintf("items[%d].productId", idx)))
		}
		if item.Quantity <= 0 {
			errList = append(errList, errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].quantity", idx), item.Quantity, 1, "unbounded"))
		}
		if item.UnitPrice < 0 {
			errList = append(errList, errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].unitPrice", idx), item.UnitPrice, 0, "unbounded"))
		}
	}
	if err := p.PaymentMethod.Validate(); err != nil {
		errList = append(errList, err)
	}
	return errors.Join(errList...)
}

// MarshalPayload encodes a payload for storage.
func MarshalPayload(p ScheduledPayload) ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalPayload decodes a stored payload.
func UnmarshalPayload(raw []byte) (ScheduledPayload, error) {
	var p ScheduledPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return ScheduledPayload{}, errs.NewValueIsInvalidErrorWithCause("scheduledPayload", err)
	}
	return p, nil
}
