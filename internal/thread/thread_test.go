package thread

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"

	"github.com/notepid/twilight_qwk/internal/qwk"
)

// msg builds a conference 0 message posted minute minutes after midnight on
// 1996-03-14.
func msg(number, replyTo string, minute int) *qwk.Message {
	ts := time.Date(1996, time.March, 14, 0, minute, 0, 0, time.UTC)
	return &qwk.Message{
		Status:  ' ',
		Number:  number,
		ReplyTo: replyTo,
		Date:    ts.Format("01-02-06"),
		Time:    ts.Format("15:04"),
		Subject: "msg " + number,
	}
}

func numbers(msgs []*qwk.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Number)
	}
	return out
}

func sameNumbers(got []*qwk.Message, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].Number != want[i] {
			return false
		}
	}
	return true
}

func TestBuildReplyChain(t *testing.T) {
	a := msg("1", "", 0)
	b := msg("2", "1", 5)
	c := msg("3", "2", 10)

	threads, display := Build([]*qwk.Message{a, b, c})

	if len(display) != 1 {
		t.Fatalf("expected 1 display thread, got %d", len(display))
	}
	if display[0].Root != a {
		t.Fatalf("expected root 1, got %s", display[0].Root.Number)
	}
	if !sameNumbers(display[0].Replies, "2", "3") {
		t.Fatalf("unexpected replies %v", numbers(display[0].Replies))
	}
	for _, th := range threads {
		if th.Root == b || th.Root == c {
			if containsThread(display, th) {
				t.Fatalf("thread rooted at %s should not be displayed", th.Root.Number)
			}
		}
	}
}

func TestBuildNestedRootFilteredFromDisplay(t *testing.T) {
	// File order puts the middle of the chain first, so it becomes a rooted
	// thread of its own before the real root claims it.
	c := msg("3", "2", 10)
	b := msg("2", "1", 5)
	a := msg("1", "", 0)

	threads, display := Build([]*qwk.Message{c, b, a})

	if len(threads) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(threads))
	}
	if threads[0].Root != a || threads[1].Root != b {
		t.Fatalf("threads not ordered by root time: %s, %s", threads[0].Root.Number, threads[1].Root.Number)
	}
	if len(display) != 1 || display[0].Root != a {
		t.Fatalf("expected only thread 1 displayed, got %d threads", len(display))
	}
	if !sameNumbers(display[0].Replies, "2", "3") {
		t.Fatalf("unexpected replies %v", numbers(display[0].Replies))
	}
}

func TestBuildOrphanedReplies(t *testing.T) {
	b := msg("2", "999", 5)
	c := msg("3", "2", 10)

	threads, display := Build([]*qwk.Message{b, c})

	if len(threads) != 1 || len(display) != 1 {
		t.Fatalf("expected a single thread, got %d/%d", len(threads), len(display))
	}
	if threads[0].Root != b || !sameNumbers(threads[0].Replies, "3") {
		t.Fatalf("unexpected thread %s %v", threads[0].Root.Number, numbers(threads[0].Replies))
	}
}

func TestBuildOrphanEarliestBecomesRoot(t *testing.T) {
	late := msg("10", "999", 30)
	early := msg("11", "999", 5)
	middle := msg("12", "999", 20)

	threads, _ := Build([]*qwk.Message{late, early, middle})

	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	if threads[0].Root != early {
		t.Fatalf("expected earliest reply as root, got %s", threads[0].Root.Number)
	}
	if !sameNumbers(threads[0].Replies, "12", "10") {
		t.Fatalf("unexpected replies %v", numbers(threads[0].Replies))
	}
}

func TestBuildCycleTerminates(t *testing.T) {
	a := msg("1", "2", 0)
	b := msg("2", "1", 5)

	done := make(chan struct{})
	var threads, display []*Thread
	go func() {
		threads, display = Build([]*qwk.Message{a, b})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Build did not terminate on a reply cycle")
	}

	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	if threads[0].Len() != 2 {
		t.Fatalf("expected both messages in the thread, got %d", threads[0].Len())
	}
	if len(display) != 1 {
		t.Fatalf("expected 1 display thread, got %d", len(display))
	}
}

func TestBuildSelfReply(t *testing.T) {
	a := msg("1", "1", 0)

	threads, display := Build([]*qwk.Message{a})
	if len(threads) != 1 || threads[0].Root != a || len(threads[0].Replies) != 0 {
		t.Fatalf("expected singleton thread, got %+v", threads)
	}
	if len(display) != 1 {
		t.Fatalf("expected 1 display thread, got %d", len(display))
	}
}

func TestBuildStandaloneOrdering(t *testing.T) {
	x := msg("1", "", 30)
	y := msg("2", "0", 10)
	z := msg("3", "", 20)

	threads, display := Build([]*qwk.Message{x, y, z})
	if len(threads) != 3 || len(display) != 3 {
		t.Fatalf("expected 3 standalone threads, got %d/%d", len(threads), len(display))
	}
	got := []string{threads[0].Root.Number, threads[1].Root.Number, threads[2].Root.Number}
	if fmt.Sprint(got) != "[2 3 1]" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestBuildPaddedReplyReferences(t *testing.T) {
	root := msg("1", "", 0)
	zero := msg("2", " 0 ", 5)
	blank := msg("3", "   ", 10)
	reply := msg("4", " 1", 15)

	threads, display := Build([]*qwk.Message{root, zero, blank, reply})
	if len(threads) != 3 || len(display) != 3 {
		t.Fatalf("expected 3 threads, got %d/%d", len(threads), len(display))
	}
	if threads[0].Root != root || !sameNumbers(threads[0].Replies, "4") {
		t.Fatalf("padded parent not linked: %v", numbers(threads[0].Replies))
	}
}

func TestBuildEqualTimestampsKeepFileOrder(t *testing.T) {
	a := msg("1", "", 0)
	b := msg("2", "", 0)
	c := &qwk.Message{Number: "3", Date: "bad"}
	d := &qwk.Message{Number: "4", Date: "bad"}

	threads, _ := Build([]*qwk.Message{a, b, c, d})
	got := []string{threads[0].Root.Number, threads[1].Root.Number, threads[2].Root.Number, threads[3].Root.Number}
	// Fallback timestamps sort before 1996 and keep their relative order.
	if fmt.Sprint(got) != "[3 4 1 2]" {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestBuildRepliesSortedChronologically(t *testing.T) {
	root := msg("1", "", 0)
	r1 := msg("2", "1", 50)
	r2 := msg("3", "1", 10)
	r3 := msg("4", "2", 20)

	threads, _ := Build([]*qwk.Message{root, r1, r2, r3})
	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	if !sameNumbers(threads[0].Replies, "3", "4", "2") {
		t.Fatalf("unexpected reply order %v", numbers(threads[0].Replies))
	}
}

func TestBuildDeepChain(t *testing.T) {
	const depth = 50000
	msgs := make([]*qwk.Message, depth)
	msgs[0] = &qwk.Message{Number: "1", Date: "01-01-96", Time: "00:00"}
	for i := 1; i < depth; i++ {
		msgs[i] = &qwk.Message{Number: strconv.Itoa(i + 1), ReplyTo: strconv.Itoa(i), Date: "01-01-96", Time: "00:00"}
	}

	_, display := Build(msgs)
	if len(display) != 1 || display[0].Len() != depth {
		t.Fatalf("expected one thread of %d messages", depth)
	}
}

func TestBuildDisplayPartitionsMessages(t *testing.T) {
	r := rand.New(rand.NewPCG(1996, 314))

	for round := 0; round < 50; round++ {
		n := 1 + r.IntN(60)
		msgs := make([]*qwk.Message, n)
		for i := range msgs {
			replyTo := ""
			switch r.IntN(4) {
			case 0:
				replyTo = strconv.Itoa(1 + r.IntN(n+5)) // may point past the set
			case 1:
				replyTo = "0"
			case 2:
				replyTo = strconv.Itoa(1 + r.IntN(n))
			}
			msgs[i] = msg(strconv.Itoa(i+1), replyTo, r.IntN(120))
		}

		_, display := Build(msgs)

		seen := make(map[*qwk.Message]int)
		for _, th := range display {
			seen[th.Root]++
			for _, m := range th.Replies {
				seen[m]++
			}
		}
		for _, m := range msgs {
			if seen[m] != 1 {
				t.Fatalf("round %d: message %s (reply to %q) appears %d times in display threads",
					round, m.Number, m.ReplyTo, seen[m])
			}
		}
	}
}

func TestReconstruct(t *testing.T) {
	a := msg("1", "", 0)
	b := msg("2", "1", 45)
	other := msg("3", "", 90)
	other.Conference = 5

	conf := Reconstruct(qwk.Conference{Number: 0, Name: "Main"}, []*qwk.Message{a, b, other})

	if conf.Name != "Main" || conf.Number != 0 {
		t.Fatalf("unexpected conference %+v", conf.Conference)
	}
	if conf.MessageCount != 2 {
		t.Fatalf("expected 2 messages, got %d", conf.MessageCount)
	}
	if !conf.NewestDate.Equal(b.Timestamp()) {
		t.Fatalf("newest date: got %v want %v", conf.NewestDate, b.Timestamp())
	}
	if len(conf.DisplayThreads) != 1 || conf.DisplayThreads[0].Len() != 2 {
		t.Fatalf("expected one thread of two messages")
	}
}

func TestReconstructEmpty(t *testing.T) {
	conf := Reconstruct(qwk.Conference{Number: 3, Name: "Empty"}, nil)
	if conf.MessageCount != 0 || len(conf.Threads) != 0 || !conf.NewestDate.IsZero() {
		t.Fatalf("unexpected enrichment for empty conference: %+v", conf)
	}
}

func TestThreadLatest(t *testing.T) {
	th := &Thread{Root: msg("1", "", 5), Replies: []*qwk.Message{msg("2", "1", 40), msg("3", "1", 20)}}
	if want := time.Date(1996, time.March, 14, 0, 40, 0, 0, time.UTC); !th.Latest().Equal(want) {
		t.Fatalf("got %v want %v", th.Latest(), want)
	}
}

func containsThread(list []*Thread, t *Thread) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}
