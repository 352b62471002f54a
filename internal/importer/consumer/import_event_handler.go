package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fintrack-ledger/internal/domain/shared"
	"github.com/fintrack-ledger/internal/importer/service"
	"github.com/fintrack-ledger/internal/platform/messaging/producers"
)

// ImportEventHandler handles incoming imported expense messages from Kafka
type ImportEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewImportEventHandler creates a new handler
func NewImportEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *ImportEventHandler {
	return &ImportEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *ImportEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var row shared.ImportedExpense
	if err := json.Unmarshal(value, &row); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal imported expense from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if row.CorrelationID != "" {
		logger = h.logger.With("correlation_id", row.CorrelationID)
	}

	logger.Info("Received imported expense for processing",
		"row_id", row.RowID.String(),
		"import_id", row.ImportID.String(),
		"user_id", row.UserID.String(),
		"amount", row.Amount,
	)

	if err := h.processingService.ProcessExpense(ctx, &row); err != nil {
		logger.Error("Failed to process imported expense",
			"row_id", row.RowID.String(),
			"import_id", row.ImportID.String(),
			"error", err,
		)

		// Invalid rows never become valid on redelivery; park them in the
		// DLQ and commit instead of retrying forever
		if isPermanent(err) && h.producer != nil {
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, err.Error()); dlqErr == nil {
				logger.Info("Published invalid imported expense to DLQ", "row_id", row.RowID.String())
				return nil
			}
		}
		return fmt.Errorf("processing imported expense %s failed: %w", row.RowID.String(), err)
	}

	logger.Info("Successfully processed imported expense", "row_id", row.RowID.String())
	return nil // Success, commit offset
}

// isPermanent reports whether the error can never succeed on retry
func isPermanent(err error) bool {
	return errors.Is(err, shared.ErrInvalidAmount) || errors.Is(err, shared.ErrUnknownAccountType)
}
