package workers

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Supervisor owns a cancelable context and runs each worker in its own
// goroutine. A worker panic is recovered and the worker restarted after a
// delay; a failure in one worker never stops the supervisor or its siblings.
type Supervisor struct {
	Cancel          context.CancelFunc
	wg              *sync.WaitGroup
	log             *slog.Logger
	restartInterval time.Duration
	workers         []contract.Worker
}

func NewSupervisor(log *slog.Logger, restartInterval time.Duration) *Supervisor {
	return &Supervisor{wg: &sync.WaitGroup{}, log: log, restartInterval: restartInterval}
}

func (s *Supervisor) Add(worker ...contract.Worker) contract.ISupervisor {
	s.workers = append(s.workers, worker...)
	return s
}

// Run starts every registered worker and blocks until all of them finish.
// The supervised context is tied to the parent: if the parent cancels, the
// children cancel; if Stop is called, only the children cancel.
func (s *Supervisor) Run(ctx context.Context) {
	supervisedCtx, cancel := context.WithCancel(ctx)
	s.Cancel = cancel
	defer s.Cancel()

	for _, worker := range s.workers {
		s.Start(supervisedCtx, worker)
	}
	s.wg.Wait()
}

// Start runs one worker under supervision in a dedicated goroutine.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	workerName := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info(fmt.Sprintf("Stopping : %s", workerName))
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = errors.ErrWorkerPanic
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				// Terminated properly, never restart.
				s.log.Info(fmt.Sprintf("Worker finished : %s", workerName))
				return
			}

			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", workerName)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", workerName, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.restartInterval):
			}
		}
	}()
}

// Stop cancels every supervised worker. Run keeps waiting for the goroutines
// to drain before it returns.
func (s *Supervisor) Stop() {
	if s.Cancel != nil {
		s.Cancel()
	}
}
