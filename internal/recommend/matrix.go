// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package recommend

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/teastore-recommender/internal/metrics"
	"github.com/tomtom215/teastore-recommender/internal/models"
)

// BuildRatingMatrix converts the order records of one training window into a
// TrainingSet.
//
// Items are grouped per order with quantities summed per product, so an order
// listing the same product twice accumulates. Each group is matched to its
// order through an ID index, falling back to a scan of orders. Groups whose
// order cannot be found are dropped, logged and counted. Their products still
// join the product universe.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func BuildRatingMatrix(items []models.OrderItem, orders []models.Order, logger zerolog.Logger) *TrainingSet {
	products := make(ProductSet)
	sets := make(map[int64]*OrderItemSet)

	for i := range items {
		item := &items[i]
		set, ok := sets[item.OrderID]
		if !ok {
			set = &OrderItemSet{OrderID: item.OrderID, Items: make(map[int64]int64)}
			sets[item.OrderID] = set
		}
		set.Items[item.ProductID] += item.Quantity
		products.Add(item.ProductID)
	}

	index := make(map[int64]*models.Order, len(orders))
	for i := range orders {
		index[orders[i].ID] = &orders[i]
	}

	ts := &TrainingSet{
		Ratings:      make(RatingMatrix),
		Products:     products,
		UserItemSets: make(map[int64][]*OrderItemSet),
		OrderItems:   len(items),
		Orders:       len(orders),
	}

	for _, orderID := range SortedKeys(sets) {
		set := sets[orderID]

		order, ok := index[orderID]
		if !ok {
			order = findOrder(orders, orderID)
			if order != nil {
				logger.Warn().Int64("order_id", orderID).Msg("Order missing from index, resolved by scan")
			}
		}
		if order == nil {
			ts.DroppedItemSets++
			metrics.RecordOrphanItemSet()
			logger.Warn().
				Int64("order_id", orderID).
				Int("products", len(set.Items)).
				Msg("Dropping order items that reference an unknown order")
			continue
		}

		set.UserID = order.UserID
		ts.UserItemSets[order.UserID] = append(ts.UserItemSets[order.UserID], set)

		row, ok := ts.Ratings[order.UserID]
		if !ok {
			row = make(map[int64]float64)
			ts.Ratings[order.UserID] = row
		}
		for _, productID := range SortedKeys(set.Items) {
			row[productID] += float64(set.Items[productID])
		}
	}

	return ts
}

func findOrder(orders []models.Order, orderID int64) *models.Order {
	for i := range orders {
		if orders[i].ID == orderID {
			return &orders[i]
		}
	}
	return nil
}
