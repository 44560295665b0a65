// Package thread rebuilds reply trees from the flat message list of a QWK packet.
package thread

import (
	"time"

	"github.com/notepid/twilight_qwk/internal/qwk"
)

// Thread is a root message and all of its descendants in chronological order.
type Thread struct {
	Root    *qwk.Message   `json:"root"`
	Replies []*qwk.Message `json:"replies"`
}

// Len returns the number of messages in the thread, root included.
func (t *Thread) Len() int {
	return 1 + len(t.Replies)
}

// Latest returns the newest timestamp in the thread.
func (t *Thread) Latest() time.Time {
	latest := t.Root.Timestamp()
	for _, r := range t.Replies {
		if ts := r.Timestamp(); ts.After(latest) {
			latest = ts
		}
	}
	return latest
}

// Conference is a manifest conference enriched with its reconstructed threads.
type Conference struct {
	qwk.Conference

	Messages []*qwk.Message `json:"-"`

	// Threads holds every reconstructed thread, including ones whose root is
	// also a reply inside another thread. DisplayThreads holds only top-level ones.
	Threads        []*Thread `json:"-"`
	DisplayThreads []*Thread `json:"-"`

	MessageCount int       `json:"message_count"`
	NewestDate   time.Time `json:"newest_date"`
}
