package ai

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
)

// classifyError maps provider failures onto domain sentinels so callers can
// tell timeouts and outages apart from bad requests.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%s: %w: %v", op, domain.ErrTimeout, err)
		}
		return fmt.Errorf("%s: %w: %v", op, domain.ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
