package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/dorfportal/reminder-service/internal/domain"
)

// WebPushTransport delivers reminders over the Web Push protocol using VAPID
// identification. Key material comes from config; the subscriber contact is
// the mailto: address push services may use to reach the operator.
type WebPushTransport struct {
	subscriber string
	publicKey  string
	privateKey string
	ttl        int
	httpClient *http.Client
}

func NewWebPushTransport(subscriber, publicKey, privateKey string, ttl time.Duration, timeout time.Duration) *WebPushTransport {
	return &WebPushTransport{
		subscriber: subscriber,
		publicKey:  publicKey,
		privateKey: privateKey,
		ttl:        int(ttl.Seconds()),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send encrypts and posts the payload to the subscription's endpoint.
// The push service acknowledges with 201 Created; 410/404 surface as a
// StatusError that IsEndpointGone classifies as permanent.
func (t *WebPushTransport) Send(ctx context.Context, sub *domain.PushSubscription, payload domain.ReminderPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      t.subscriber,
		VAPIDPublicKey:  t.publicKey,
		VAPIDPrivateKey: t.privateKey,
		TTL:             t.ttl,
		HTTPClient:      t.httpClient,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Endpoint: sub.Endpoint}
	}
	return nil
}

// compile-time check that WebPushTransport implements Transport
var _ Transport = (*WebPushTransport)(nil)
