package httpapi

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/notepid/twilight_qwk/internal/cache"
	"github.com/notepid/twilight_qwk/internal/config"
	"github.com/notepid/twilight_qwk/internal/qwk/qwktest"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.MaxUploadBytes = 1 << 20
	srv := httptest.NewServer(NewServer(cfg, cache.New(8)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func archive(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		w.Write(data)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func samplePacket(t *testing.T) []byte {
	ctl := qwktest.Control{
		BBSName: "Twilight BBS",
		Sysop:   "Mikael",
		Conferences: []qwktest.Conference{
			{Number: "0", Name: "Main Board"},
			{Number: "1", Name: "Quiet"},
		},
	}
	msgs := qwktest.NewMessages().
		Add(qwktest.Header{Number: "11", Date: "01-02-97", Time: "09:00", From: "BEN", Subject: "Re: Hi", ReplyTo: "10"}, "reply").
		Add(qwktest.Header{Number: "10", Date: "01-02-97", Time: "08:00", From: "ANN", Subject: "Hi"}, "root").
		Add(qwktest.Header{Number: "12", Date: "bad", Time: "", From: "CAT", Subject: "Re: Re: Hi", ReplyTo: "11"}, "nested")
	return archive(t, map[string][]byte{
		"CONTROL.DAT":  []byte(ctl.String()),
		"MESSAGES.DAT": msgs.Bytes(),
	})
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func upload(t *testing.T, srv *httptest.Server, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/packets", "application/zip", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv.URL+"/api/health")
	var body map[string]string
	decode(t, resp, &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("health: %d %v", resp.StatusCode, body)
	}
}

func TestUploadAndBrowse(t *testing.T) {
	srv := newTestServer(t)

	resp := upload(t, srv, samplePacket(t))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status %d", resp.StatusCode)
	}
	var up uploadResponse
	decode(t, resp, &up)
	if up.BBS.Name != "Twilight BBS" || up.Stats.Messages != 3 || up.Stats.Threads != 1 {
		t.Fatalf("unexpected upload response %+v", up)
	}
	if len(up.ID) != 16 {
		t.Fatalf("unexpected id %q", up.ID)
	}

	again := upload(t, srv, samplePacket(t))
	var up2 uploadResponse
	decode(t, again, &up2)
	if up2.ID != up.ID {
		t.Fatalf("same content got different ids %q and %q", up.ID, up2.ID)
	}

	var pkt packetResponse
	decode(t, get(t, srv.URL+"/api/packets/"+up.ID), &pkt)
	if len(pkt.Conferences) != 2 || pkt.Conferences[0].Messages != 3 || pkt.Conferences[1].Messages != 0 {
		t.Fatalf("unexpected conferences %+v", pkt.Conferences)
	}

	var conf struct {
		Name    string `json:"name"`
		Threads []struct {
			Root struct {
				Number  string `json:"number"`
				Display string `json:"display_date"`
			} `json:"root"`
			Replies []struct {
				Number  string `json:"number"`
				Display string `json:"display_date"`
			} `json:"replies"`
		} `json:"threads"`
	}
	decode(t, get(t, srv.URL+"/api/packets/"+up.ID+"/conferences/0"), &conf)
	if conf.Name != "Main Board" || len(conf.Threads) != 1 {
		t.Fatalf("unexpected conference %+v", conf)
	}
	th := conf.Threads[0]
	if th.Root.Number != "10" || len(th.Replies) != 2 {
		t.Fatalf("unexpected thread %+v", th)
	}
	// The undated reply sorts first.
	if th.Replies[0].Number != "12" || th.Replies[0].Display != "Unknown date" {
		t.Fatalf("unexpected first reply %+v", th.Replies[0])
	}
	if th.Root.Display != "1997-01-02 08:00" {
		t.Fatalf("unexpected root date %q", th.Root.Display)
	}

	// The reply written before its parent also heads a thread of its own.
	decode(t, get(t, srv.URL+"/api/packets/"+up.ID+"/conferences/0?all=1"), &conf)
	if len(conf.Threads) != 2 || conf.Threads[1].Root.Number != "11" {
		t.Fatalf("expected 2 threads with all=1, got %d", len(conf.Threads))
	}
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/packets/0000000000000001",
		"/api/packets/zzz",
		"/api/packets/0000000000000001/conferences/0",
	} {
		resp := get(t, srv.URL+path)
		var body map[string]string
		decode(t, resp, &body)
		if resp.StatusCode != http.StatusNotFound || body["error"] == "" {
			t.Fatalf("%s: got %d %v", path, resp.StatusCode, body)
		}
	}

	var up uploadResponse
	decode(t, upload(t, srv, samplePacket(t)), &up)
	resp := get(t, srv.URL+"/api/packets/"+up.ID+"/conferences/42")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown conference: got %d", resp.StatusCode)
	}
}

func TestUploadErrors(t *testing.T) {
	srv := newTestServer(t)

	resp := upload(t, srv, []byte("definitely not a zip"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad archive: got %d", resp.StatusCode)
	}

	resp = upload(t, srv, archive(t, map[string][]byte{"CONTROL.DAT": []byte("x")}))
	var body map[string]string
	decode(t, resp, &body)
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body["error"], "MESSAGES.DAT not found") {
		t.Fatalf("missing messages: got %d %v", resp.StatusCode, body)
	}

}

func TestUploadTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxUploadBytes = 1024
	h := NewServer(cfg, cache.New(1)).Handler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/packets", bytes.NewReader(bytes.Repeat([]byte{'x'}, 4096)))
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized upload: got %d", rec.Code)
	}
}
