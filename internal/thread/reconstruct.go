package thread

import (
	"slices"
	"time"

	"github.com/notepid/twilight_qwk/internal/qwk"
)

// built is a thread expressed as message positions.
type built struct {
	root    int
	replies []int
}

// Reconstruct rebuilds the threads of one conference. Messages belonging to
// other conferences are ignored.
func Reconstruct(conf qwk.Conference, msgs []*qwk.Message) *Conference {
	var own []*qwk.Message
	for _, m := range msgs {
		if m.Conference == conf.Number {
			own = append(own, m)
		}
	}

	c := &Conference{
		Conference:   conf,
		Messages:     own,
		MessageCount: len(own),
	}
	c.Threads, c.DisplayThreads = Build(own)

	for _, m := range own {
		if ts := m.Timestamp(); ts.After(c.NewestDate) {
			c.NewestDate = ts
		}
	}
	return c
}

// Build groups messages into threads. threads holds every thread in order of
// root timestamp; display holds the threads whose root is not a reply in any
// other thread.
func Build(msgs []*qwk.Message) (threads, display []*Thread) {
	ix := newIndex(msgs)
	claimed := make([]bool, len(msgs))

	all := rootedThreads(ix, claimed)
	all = append(all, orphanedThreads(ix, claimed)...)
	all = append(all, standaloneThreads(ix, claimed)...)

	slices.SortStableFunc(all, func(a, b built) int {
		return ix.earlier(a.root, b.root)
	})

	inReplies := make([]bool, len(msgs))
	for _, t := range all {
		for _, p := range t.replies {
			inReplies[p] = true
		}
	}

	threads = make([]*Thread, 0, len(all))
	for _, t := range all {
		th := ix.thread(t)
		threads = append(threads, th)
		if !inReplies[t.root] {
			display = append(display, th)
		}
	}
	return threads, display
}

// rootedThreads makes a thread for every unclaimed message that has replies,
// collecting its whole reply tree.
func rootedThreads(ix *index, claimed []bool) []built {
	var out []built
	for pos := range ix.msgs {
		if claimed[pos] || !ix.hasReplies(pos) {
			continue
		}

		replies := ix.descendants([]int{pos}, visitOnce(pos))
		slices.SortStableFunc(replies, ix.earlier)

		claimed[pos] = true
		for _, p := range replies {
			claimed[p] = true
		}
		out = append(out, built{root: pos, replies: replies})
	}
	return out
}

// orphanedThreads handles replies whose parent is not in the conference. The
// earliest unclaimed reply of each such group stands in as the root.
func orphanedThreads(ix *index, claimed []bool) []built {
	var out []built
	for _, parent := range ix.parents {
		if ix.exists(parent) {
			continue
		}

		var available []int
		for _, p := range ix.children[parent] {
			if !claimed[p] {
				available = append(available, p)
			}
		}
		if len(available) == 0 {
			continue
		}
		slices.SortStableFunc(available, ix.earlier)

		for _, p := range available {
			claimed[p] = true
		}
		replies := slices.Clone(available[1:])
		replies = append(replies, ix.descendants(available, visitUnclaimed(claimed))...)
		slices.SortStableFunc(replies, ix.earlier)

		out = append(out, built{root: available[0], replies: replies})
	}
	return out
}

// standaloneThreads turns every message nobody claimed into its own thread.
func standaloneThreads(ix *index, claimed []bool) []built {
	var out []built
	for pos := range ix.msgs {
		if !claimed[pos] {
			claimed[pos] = true
			out = append(out, built{root: pos})
		}
	}
	return out
}

func (ix *index) thread(b built) *Thread {
	t := &Thread{Root: ix.msgs[b.root], Replies: make([]*qwk.Message, 0, len(b.replies))}
	for _, p := range b.replies {
		t.Replies = append(t.Replies, ix.msgs[p])
	}
	return t
}

// Newest returns the latest message timestamp across conferences, or the zero
// time if there are no messages.
func Newest(confs []*Conference) time.Time {
	var newest time.Time
	for _, c := range confs {
		if c.MessageCount > 0 && c.NewestDate.After(newest) {
			newest = c.NewestDate
		}
	}
	return newest
}
