package packet

import (
	"strings"

	"golang.org/x/text/transform"

	"github.com/notepid/twilight_qwk/internal/ansi"
	"github.com/notepid/twilight_qwk/internal/cp437"
	"github.com/notepid/twilight_qwk/internal/qwk"
)

// BulletinKind says which CONTROL.DAT slot named a bulletin.
type BulletinKind string

const (
	Welcome BulletinKind = "welcome"
	News    BulletinKind = "news"
	Goodbye BulletinKind = "goodbye"
)

// Bulletin is a text screen shipped with the packet.
type Bulletin struct {
	Kind  BulletinKind `json:"kind"`
	Name  string       `json:"name"`
	Title string       `json:"title,omitempty"` // from the SAUCE record, if any
	Text  string       `json:"text"`            // decoded, ANSI codes removed
}

func loadBulletins(files Files, ctl *qwk.Control) []*Bulletin {
	slots := []struct {
		kind BulletinKind
		name string
	}{
		{Welcome, ctl.Welcome},
		{News, ctl.News},
		{Goodbye, ctl.Goodbye},
	}

	var out []*Bulletin
	for _, s := range slots {
		if s.name == "" {
			continue
		}
		data, ok := files.Get(s.name)
		if !ok {
			continue
		}
		b, err := decodeBulletin(s.kind, s.name, data)
		if err != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

func decodeBulletin(kind BulletinKind, name string, data []byte) (*Bulletin, error) {
	sauce, content := ansi.ParseSAUCE(data)

	text, _, err := transform.String(cp437.NewTextDecoder(), string(content))
	if err != nil {
		return nil, err
	}

	b := &Bulletin{
		Kind: kind,
		Name: name,
		Text: ansi.NormalizeLines(ansi.Strip(strings.TrimRight(text, "\x1a"))),
	}
	if sauce != nil {
		b.Title = sauce.Title
	}
	return b, nil
}
