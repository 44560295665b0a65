// Package packet turns the files of a QWK packet into conferences and threads.
package packet

import (
	"errors"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/transform"

	"github.com/notepid/twilight_qwk/internal/cp437"
	"github.com/notepid/twilight_qwk/internal/qwk"
	"github.com/notepid/twilight_qwk/internal/thread"
)

// Names of the two files every packet must contain.
const (
	ManifestFile = "CONTROL.DAT"
	MessageFile  = "MESSAGES.DAT"
)

var (
	// ErrMissingManifestFile is returned when no CONTROL.DAT was supplied.
	ErrMissingManifestFile = errors.New(ManifestFile + " not found")
	// ErrMissingMessageFile is returned when no MESSAGES.DAT was supplied.
	ErrMissingMessageFile = errors.New(MessageFile + " not found")
)

// Files maps caller-chosen file names to their contents. Lookups ignore case.
type Files map[string][]byte

// Get returns the file whose name matches name case-insensitively.
func (f Files) Get(name string) ([]byte, bool) {
	if data, ok := f[name]; ok {
		return data, true
	}
	for k, data := range f {
		if strings.EqualFold(k, name) {
			return data, true
		}
	}
	return nil, false
}

// Stats summarises a packet.
type Stats struct {
	Conferences int       `json:"conferences"` // conferences holding at least one message
	Messages    int       `json:"messages"`
	Threads     int       `json:"threads"` // top-level threads across all conferences
	Unlisted    int       `json:"unlisted"` // messages in conferences CONTROL.DAT does not list
	Newest      time.Time `json:"newest"`
}

// Packet is the fully decoded content of one QWK packet. A Packet is never
// modified after it is returned.
type Packet struct {
	BBS         qwk.BBSInfo
	Conferences []*thread.Conference // sorted by number
	Bulletins   []*Bulletin
	Stats       Stats
	Fingerprint uint64
}

// Parse decodes a packet from the text of CONTROL.DAT and the bytes of
// MESSAGES.DAT. It has no side effects.
func Parse(manifest string, messages []byte) *Packet {
	p, _ := parse(manifest, messages)
	return p
}

func parse(manifest string, messages []byte) (*Packet, *qwk.Control) {
	ctl := qwk.ParseControl(manifest)
	msgs := qwk.DecodeMessages(messages)

	p := &Packet{BBS: ctl.BBS}

	listed := make(map[int]bool, len(ctl.Conferences))
	for _, conf := range ctl.Conferences {
		if listed[conf.Number] {
			continue
		}
		listed[conf.Number] = true
		p.Conferences = append(p.Conferences, thread.Reconstruct(conf, msgs))
	}
	slices.SortStableFunc(p.Conferences, func(a, b *thread.Conference) int {
		return a.Number - b.Number
	})

	p.Stats.Messages = len(msgs)
	for _, m := range msgs {
		if !listed[m.Conference] {
			p.Stats.Unlisted++
		}
	}
	for _, c := range p.Active() {
		p.Stats.Conferences++
		p.Stats.Threads += len(c.DisplayThreads)
	}
	p.Stats.Newest = thread.Newest(p.Conferences)
	return p, ctl
}

// Load finds CONTROL.DAT and MESSAGES.DAT among files and parses them. Both
// must be present; otherwise nothing is parsed and the matching sentinel
// error is returned. Bulletins named in CONTROL.DAT are attached when present.
func Load(files Files) (*Packet, error) {
	rawManifest, ok := files.Get(ManifestFile)
	if !ok {
		return nil, ErrMissingManifestFile
	}
	messages, ok := files.Get(MessageFile)
	if !ok {
		return nil, ErrMissingMessageFile
	}

	manifest, _, err := transform.String(cp437.NewTextDecoder(), string(rawManifest))
	if err != nil {
		return nil, err
	}

	p, ctl := parse(manifest, messages)
	p.Bulletins = loadBulletins(files, ctl)
	p.Fingerprint = Fingerprint(files)
	return p, nil
}

// Active returns the conferences that contain at least one message.
func (p *Packet) Active() []*thread.Conference {
	var out []*thread.Conference
	for _, c := range p.Conferences {
		if c.MessageCount > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Conference returns the conference with the given number.
func (p *Packet) Conference(number int) (*thread.Conference, bool) {
	for _, c := range p.Conferences {
		if c.Number == number {
			return c, true
		}
	}
	return nil, false
}
