package thread

import (
	"strings"
	"time"

	"github.com/notepid/twilight_qwk/internal/qwk"
)

// index is built once per conference and only read afterwards. Messages are
// referred to by their position in msgs, since numbers are not guaranteed unique.
type index struct {
	msgs   []*qwk.Message
	stamps []time.Time

	byNumber map[string]int   // first position carrying each number
	children map[string][]int // parent number -> replies in file order
	parents  []string         // keys of children in first-seen order
}

func newIndex(msgs []*qwk.Message) *index {
	ix := &index{
		msgs:     msgs,
		stamps:   make([]time.Time, len(msgs)),
		byNumber: make(map[string]int, len(msgs)),
		children: make(map[string][]int),
	}

	for i, m := range msgs {
		ix.stamps[i] = m.Timestamp()

		num := ix.number(i)
		if _, ok := ix.byNumber[num]; !ok {
			ix.byNumber[num] = i
		}

		if !m.HasParent() {
			continue
		}
		parent := strings.TrimSpace(m.ReplyTo)
		if _, ok := ix.children[parent]; !ok {
			ix.parents = append(ix.parents, parent)
		}
		ix.children[parent] = append(ix.children[parent], i)
	}
	return ix
}

func (ix *index) number(pos int) string {
	return strings.TrimSpace(ix.msgs[pos].Number)
}

func (ix *index) hasReplies(pos int) bool {
	return len(ix.children[ix.number(pos)]) > 0
}

func (ix *index) exists(number string) bool {
	_, ok := ix.byNumber[number]
	return ok
}

// earlier orders positions by interpreted timestamp only.
func (ix *index) earlier(a, b int) int {
	return ix.stamps[a].Compare(ix.stamps[b])
}
