package flow

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrBusy is returned when a request is already in flight for a view.
	ErrBusy = errors.New("a request is already in progress")
	// ErrDismissed is returned when the view was dismissed before a request completed.
	ErrDismissed = errors.New("view dismissed")
)

// lifetime ties in-flight requests to the view that started them.
// Once dismissed, requests are canceled and their completions ignored.
type lifetime struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	dismissed bool
}

func newLifetime() *lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return &lifetime{id: uuid.NewString(), ctx: ctx, cancel: cancel}
}

// bind derives a request context canceled by either ctx or dismissal.
func (l *lifetime) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}
}

func (l *lifetime) alive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.dismissed
}

// end dismisses the view. It reports false if it was already dismissed.
func (l *lifetime) end() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.dismissed {
		return false
	}
	l.dismissed = true
	l.cancel()
	return true
}
