package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/logger"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/provider"
	"github.com/vitrine-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer async task consumer
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register registers task handlers
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReservationSweep, c.handleReservationSweep)
}

// handleReservationSweep settles the stock hold of one order after the hold
// deadline. Paid orders get their reservations captured; orders still
// awaiting payment get the stock returned.
func (c *Consumer) handleReservationSweep(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_reservation_sweep_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReservationSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_reservation_sweep_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_reservation_sweep_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	reservations, err := c.ReservationRepo.ListReservedByOrder(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_reservation_sweep_list_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if len(reservations) == 0 {
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_reservation_sweep_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order != nil && (order.Status == constants.OrderStatusPaid || order.Status == constants.OrderStatusCompleted) {
		if err := c.ReservationRepo.MarkCapturedByOrder(payload.OrderID); err != nil {
			logger.Warnw("worker_reservation_sweep_capture_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
		logger.Infow("worker_reservation_sweep_captured", "order_id", payload.OrderID, "count", len(reservations))
		return nil
	}

	c.releaseReservations(reservations)
	logger.Infow("worker_reservation_sweep_released", "order_id", payload.OrderID, "count", len(reservations))
	return nil
}

// sweepExpiredReservations releases orphaned holds whose sweep task was lost,
// e.g. when the queue was down at enqueue time
func (c *Consumer) sweepExpiredReservations(now time.Time) {
	if c == nil {
		return
	}
	reservations, err := c.ReservationRepo.ListExpiredReserved(now, 200)
	if err != nil {
		logger.Warnw("worker_expired_reservation_list_failed", "error", err)
		return
	}
	if len(reservations) == 0 {
		return
	}

	released := make([]models.StockReservation, 0, len(reservations))
	for _, reservation := range reservations {
		order, err := c.OrderRepo.GetByID(reservation.OrderID)
		if err != nil {
			logger.Warnw("worker_expired_reservation_fetch_order_failed",
				"order_id", reservation.OrderID,
				"error", err,
			)
			continue
		}
		if order != nil && (order.Status == constants.OrderStatusPaid || order.Status == constants.OrderStatusCompleted) {
			if err := c.ReservationRepo.MarkCapturedByOrder(reservation.OrderID); err != nil {
				logger.Warnw("worker_expired_reservation_capture_failed",
					"order_id", reservation.OrderID,
					"error", err,
				)
			}
			continue
		}
		released = append(released, reservation)
	}
	c.releaseReservations(released)
	if len(released) > 0 {
		logger.Infow("worker_expired_reservations_released", "count", len(released))
	}
}

func (c *Consumer) releaseReservations(reservations []models.StockReservation) {
	for _, reservation := range reservations {
		if err := c.ReservationRepo.MarkReleased(reservation.ID); err != nil {
			// Someone else already settled this row; do not return stock twice.
			logger.Debugw("worker_reservation_already_settled",
				"reservation_id", reservation.ID,
				"order_id", reservation.OrderID,
			)
			continue
		}
		if _, err := c.VariantRepo.IncrementStock(reservation.VariantID, reservation.Quantity); err != nil {
			logger.Errorw("worker_stock_return_failed",
				"reservation_id", reservation.ID,
				"variant_id", reservation.VariantID,
				"quantity", reservation.Quantity,
				"error", err,
			)
		}
	}
}
