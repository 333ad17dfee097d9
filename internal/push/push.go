package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dorfportal/reminder-service/internal/domain"
)

// Transport abstracts delivery to a browser push service.
// Mocking this interface in tests gives full control over delivery behaviour
// without making real push calls.
type Transport interface {
	Send(ctx context.Context, sub *domain.PushSubscription, payload domain.ReminderPayload) error
}

// StatusError is returned when the push service answers with a non-success
// HTTP status. 410 Gone and 404 Not Found mean the endpoint is permanently
// invalid and its subscription should be pruned; anything else is transient.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("push service returned %d for %s", e.StatusCode, e.Endpoint)
}

// IsEndpointGone reports whether err indicates a permanently invalid endpoint.
func IsEndpointGone(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusGone || se.StatusCode == http.StatusNotFound
}
