// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package models

import (
	"fmt"
	"time"
)

// orderTimeLayouts are the ISO-8601 local date-time shapes the persistence
// service emits. Seconds are omitted when they are zero; fractional seconds
// are accepted by time.Parse after the seconds field.
var orderTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Order is a placed order as served by the persistence service.
type Order struct {
	ID                   int64  `json:"id"`
	UserID               int64  `json:"userId"`
	Time                 string `json:"time"`
	TotalPriceInCents    int64  `json:"totalPriceInCents"`
	AddressName          string `json:"addressName,omitempty"`
	Address1             string `json:"address1,omitempty"`
	Address2             string `json:"address2,omitempty"`
	CreditCardCompany    string `json:"creditCardCompany,omitempty"`
	CreditCardNumber     string `json:"creditCardNumber,omitempty"`
	CreditCardExpiryDate string `json:"creditCardExpiryDate,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID               int64 `json:"id"`
	ProductID        int64 `json:"productId" validate:"min=0"`
	OrderID          int64 `json:"orderId"`
	Quantity         int64 `json:"quantity" validate:"min=0"`
	UnitPriceInCents int64 `json:"unitPriceInCents"`
}

// ParseOrderTime converts an ISO local date-time into epoch milliseconds,
// interpreting it in loc. A nil loc means time.Local.
func ParseOrderTime(value string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.Local
	}

	var lastErr error
	for _, layout := range orderTimeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t.UnixMilli(), nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("parse order time %q: %w", value, lastErr)
}

// TimeMillis returns the order time in epoch milliseconds.
func (o *Order) TimeMillis(loc *time.Location) (int64, error) {
	return ParseOrderTime(o.Time, loc)
}

// ProductIDs returns the product IDs of items in their original order.
func ProductIDs(items []OrderItem) []int64 {
	ids := make([]int64, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ProductID)
	}
	return ids
}
