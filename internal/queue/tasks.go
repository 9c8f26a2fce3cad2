package queue

import (
	"encoding/json"

	"github.com/vitrine-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskReservationSweep releases expired stock reservations
	TaskReservationSweep = constants.TaskReservationSweep
)

// ReservationSweepPayload reservation sweep task payload
type ReservationSweepPayload struct {
	OrderID uint `json:"order_id"`
}

// NewReservationSweepTask creates a reservation sweep task
func NewReservationSweepTask(payload ReservationSweepPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReservationSweep, body), nil
}
