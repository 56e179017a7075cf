package web

import (
	"sync"

	"github.com/JonMunkholm/inventory/internal/web/templates"
)

// maxFlashes bounds the queue when the page is never reloaded (API-only use).
const maxFlashes = 10

// flashStore holds messages between a form post and the page it redirects
// to. There is one user, so there is one queue.
type flashStore struct {
	mu      sync.Mutex
	pending []templates.Flash
}

func (f *flashStore) add(flashes ...templates.Flash) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, flashes...)
	if n := len(f.pending); n > maxFlashes {
		f.pending = f.pending[n-maxFlashes:]
	}
}

// take returns and clears the pending messages.
func (f *flashStore) take() []templates.Flash {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.pending
	f.pending = nil
	return out
}
