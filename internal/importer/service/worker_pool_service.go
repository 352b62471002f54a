package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/fintrack-ledger/internal/domain/shared"
)

// WorkerPoolProcessingService implements the ProcessingService interface on
// top of a bounded worker pool, so a large import batch cannot saturate the
// database.
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProcessExpense submits a row to the worker pool and waits for its result
func (s *WorkerPoolProcessingService) ProcessExpense(ctx context.Context, row *shared.ImportedExpense) error {
	logger := s.logger
	if row.CorrelationID != "" {
		logger = s.logger.With("correlation_id", row.CorrelationID)
	}

	logger.Debug("Submitting imported expense to worker pool",
		"row_id", row.RowID.String(),
		"import_id", row.ImportID.String(),
	)

	// Create a channel to receive the result of the row processing
	resultChan := make(chan error, 1)

	rowID := row.RowID.String()
	s.mu.Lock()
	s.results[rowID] = resultChan
	s.mu.Unlock()

	// Create a copy of the row to avoid data races
	rowCopy := *row

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		err := s.baseService.ProcessExpense(ctx, &rowCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, rowID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, rowID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit imported expense to worker pool",
			"row_id", rowID,
			"error", err,
		)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
