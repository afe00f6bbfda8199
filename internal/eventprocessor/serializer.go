// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package eventprocessor

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// validatable is implemented by every event type.
type validatable interface {
	Validate() error
}

// Marshal validates and encodes an event.
func Marshal(event validatable) ([]byte, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// UnmarshalTrainedEvent decodes a training notification.
func UnmarshalTrainedEvent(data []byte) (*TrainedEvent, error) {
	var event TrainedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal trained event: %w", err)
	}
	return &event, nil
}

// UnmarshalRetrainRequest decodes a retrain request. An empty payload is a
// request without metadata; msgID is used as its event id.
func UnmarshalRetrainRequest(data []byte, msgID string) (*RetrainRequest, error) {
	req := RetrainRequest{EventID: msgID}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("unmarshal retrain request: %w", err)
		}
	}
	if req.EventID == "" {
		req.EventID = msgID
	}
	return &req, nil
}
