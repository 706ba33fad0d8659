package cli

import (
	"context"

	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
	"github.com/dmitrijs2005/cakeplanner/internal/client/notify"
)

// Watch follows the live notification stream until the user presses Enter.
// Only new cakes in the user's own group are shown.
//
// Handler output comes from the stream goroutine while this one is blocked
// reading the Enter key, so the two never write at the same time.
func (a *App) Watch(ctx context.Context, _ []string) error {
	a.println("Watching for new cakes. Press Enter to stop.")

	sub, err := a.notifier.Subscribe(ctx, a.opts.StreamURL, notify.Handler{
		OnMessage: func(n models.Notification) {
			a.printf("New cake! %s is baking on %s.\n", n.BakerName, n.Date)
		},
		OnError: func(err error) {
			a.printf("Notification stream failed: %s. Press Enter to return.\n", a.describe(err))
		},
		OnComplete: func() {
			a.println("Notification stream closed by the server. Press Enter to return.")
		},
	})
	if err != nil {
		return err
	}

	_, _ = readLine(a.reader)

	sub.Unsubscribe()
	sub.Wait()
	a.println("Stopped watching.")
	return nil
}
