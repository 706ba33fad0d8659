// Package notify consumes the backend's server-sent event stream and hands
// new-event notifications for the current user's group to a Handler.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cakeplanner/internal/client/api"
	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
	"github.com/dmitrijs2005/cakeplanner/internal/common"
	"github.com/dmitrijs2005/cakeplanner/internal/logging"
)

// ErrNoToken is returned by Subscribe when there is no session to
// authenticate the stream with.
var ErrNoToken = errors.New("no token available for notification stream")

const readBufferSize = 4 << 10

// SessionSource is the read side of the session the channel depends on.
type SessionSource interface {
	Token() (string, bool)
	CurrentUser() *models.User
}

// Handler receives the outcome of a subscription. All callbacks run on the
// subscription's reader goroutine, one at a time. Any of them may be nil.
//
// Exactly one of OnError or OnComplete is called when the stream ends,
// unless the subscription was cancelled, in which case neither is.
type Handler struct {
	OnMessage  func(models.Notification)
	OnError    func(error)
	OnComplete func()
}

type Channel struct {
	http    *http.Client
	session SessionSource
	log     logging.Logger
}

// NewChannel builds a Channel. The client should carry no overall timeout:
// streams are expected to stay open until cancelled.
func NewChannel(client *http.Client, session SessionSource, log logging.Logger) *Channel {
	if client == nil {
		client = &http.Client{}
	}
	return &Channel{
		http:    client,
		session: session,
		log:     log.With("component", "notify"),
	}
}

// Subscription is one live stream connection.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Unsubscribe aborts the stream. It does not wait for the reader to exit;
// use Wait for that.
func (s *Subscription) Unsubscribe() {
	s.cancel()
}

// Wait blocks until the reader goroutine has exited.
func (s *Subscription) Wait() {
	<-s.done
}

// Done is closed once the reader goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe opens a dedicated connection to endpoint and streams matching
// notifications to h until ctx is cancelled, Unsubscribe is called or the
// server ends the stream. It fails synchronously only when there is no token.
func (c *Channel) Subscribe(ctx context.Context, endpoint string, h Handler) (*Subscription, error) {
	token, ok := c.session.Token()
	if !ok {
		return nil, ErrNoToken
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer cancel()
		c.run(ctx, endpoint, token, h)
	}()

	return sub, nil
}

func (c *Channel) run(ctx context.Context, endpoint, token string, h Handler) {
	err := c.stream(ctx, endpoint, token, h)

	switch {
	case ctx.Err() != nil:
		c.log.Debug(ctx, "notification stream cancelled", "endpoint", endpoint)
	case err != nil:
		c.log.Warn(ctx, "notification stream failed", "endpoint", endpoint, "err", err)
		if h.OnError != nil {
			h.OnError(err)
		}
	default:
		c.log.Info(ctx, "notification stream closed by server", "endpoint", endpoint)
		if h.OnComplete != nil {
			h.OnComplete()
		}
	}
}

// stream returns nil on a clean end of data.
func (c *Channel) stream(ctx context.Context, endpoint, token string, h Handler) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	req.Header.Set("Accept", common.EventStreamMIME)
	req.Header.Set(common.RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", api.ErrUnavailable, err)
	}
	if err := api.CheckResponse(resp); err != nil {
		return fmt.Errorf("open notification stream: %w", err)
	}
	defer resp.Body.Close()

	c.log.Info(ctx, "notification stream opened", "endpoint", endpoint)

	var dec Decoder
	buf := make([]byte, readBufferSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			payloads, ferr := dec.Feed(buf[:n])
			for _, payload := range payloads {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.deliver(ctx, payload, h)
			}
			if ferr != nil {
				return fmt.Errorf("decode notification stream: %w", ferr)
			}
		}
		if errors.Is(err, io.EOF) {
			if dec.Buffered() > 0 {
				c.log.Debug(ctx, "discarding unterminated frame", "bytes", dec.Buffered())
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("read notification stream: %w", err)
		}
	}
}

// deliver parses one payload and forwards it if it is a new-event
// notification for the group the current user belongs to right now.
func (c *Channel) deliver(ctx context.Context, payload []byte, h Handler) {
	var n models.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		c.log.Warn(ctx, "dropping malformed notification", "err", err)
		return
	}
	if n.Type != models.NotificationTypeNewEvent {
		return
	}

	user := c.session.CurrentUser()
	if user == nil || user.GroupID == "" || n.GroupID != user.GroupID {
		return
	}

	if h.OnMessage != nil {
		h.OnMessage(n)
	}
}
