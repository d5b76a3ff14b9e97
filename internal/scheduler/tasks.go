package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskQuoteDeliver carries one outbound quote delivery attempt.
const TaskQuoteDeliver = "quotes.deliver"

// QuoteDeliverPayload identifies the quote and the destination captured at
// enqueue time.
type QuoteDeliverPayload struct {
	QuoteID string `json:"quoteId"`
	SentTo  string `json:"sentTo"`
}

func NewQuoteDeliverTask(payload QuoteDeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuoteDeliver, data), nil
}

func ParseQuoteDeliverPayload(task *asynq.Task) (QuoteDeliverPayload, error) {
	var payload QuoteDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return QuoteDeliverPayload{}, err
	}
	return payload, nil
}
