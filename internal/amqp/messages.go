package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReportRenderedMessage announces that a report was computed for a filter
// selection. ID is unique per rendering so consumers can deduplicate
// redeliveries.
type ReportRenderedMessage struct {
	ID          string    `json:"id"`
	CriteriaKey string    `json:"criteria_key"`
	Rows        int       `json:"rows"`
	Total       string    `json:"total"`
	RenderedAt  time.Time `json:"rendered_at"`
}

func NewReportRenderedMessage(criteriaKey string, rows int, total string) *ReportRenderedMessage {
	return &ReportRenderedMessage{
		ID:          uuid.NewString(),
		CriteriaKey: criteriaKey,
		Rows:        rows,
		Total:       total,
		RenderedAt:  time.Now().UTC(),
	}
}

func (m *ReportRenderedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRenderedMessageFromJSON decodes a message and rejects one without an id.
func ReportRenderedMessageFromJSON(data []byte) (*ReportRenderedMessage, error) {
	var msg ReportRenderedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errors.New("report event without id")
	}
	return &msg, nil
}
