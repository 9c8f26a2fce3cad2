package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vitrine-next/internal/config"
	"github.com/vitrine-next/internal/queue"

	"github.com/hibiken/asynq"
)

const expiredSweepInterval = time.Minute

// Service async queue service
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the async queue service
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the queue server and the expired-reservation sweep loop
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil {
		go s.runExpiredSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the queue server down
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runExpiredSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil {
		return
	}
	s.consumer.sweepExpiredReservations(time.Now())

	ticker := time.NewTicker(expiredSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.consumer.sweepExpiredReservations(time.Now())
		}
	}
}
