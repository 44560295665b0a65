// Package httpapi serves decoded QWK packets as JSON.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/notepid/twilight_qwk/internal/cache"
	"github.com/notepid/twilight_qwk/internal/config"
	"github.com/notepid/twilight_qwk/internal/logger"
	"github.com/notepid/twilight_qwk/internal/packet"
	"github.com/notepid/twilight_qwk/internal/qwk"
	"github.com/notepid/twilight_qwk/internal/thread"
)

// Server is the HTTP API over uploaded packets.
type Server struct {
	cfg     *config.Config
	packets *cache.Cache
}

// NewServer creates a server that keeps uploaded packets in c.
func NewServer(cfg *config.Config, c *cache.Cache) *Server {
	return &Server{cfg: cfg, packets: c}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(logRequests)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/packets", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/packets/{id}", s.handleGetPacket).Methods(http.MethodGet)
	api.HandleFunc("/packets/{id}/conferences/{number:[0-9]+}", s.handleGetConference).Methods(http.MethodGet)

	return router
}

// ListenAndServe runs the API until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.Get()),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type uploadResponse struct {
	ID    string       `json:"id"`
	BBS   qwk.BBSInfo  `json:"bbs"`
	Stats packet.Stats `json:"stats"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("packet larger than %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read upload: %v", err))
		return
	}

	p, err := s.load(body)
	if err != nil {
		logger.Warn("packet rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:    formatID(p.Fingerprint),
		BBS:   p.BBS,
		Stats: p.Stats,
	})
}

// load parses an uploaded archive, reusing a cached packet with the same
// content.
func (s *Server) load(data []byte) (*packet.Packet, error) {
	files, err := packet.ReadArchive(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	fp := packet.Fingerprint(files)
	if p, ok := s.packets.Get(fp); ok {
		logger.Debug("packet cache hit", zap.String("id", formatID(fp)))
		return p, nil
	}

	p, err := packet.Load(files)
	if err != nil {
		return nil, err
	}
	s.packets.Add(fp, p)
	logger.Info("packet uploaded",
		zap.String("id", formatID(fp)),
		zap.String("bbs", p.BBS.Name),
		zap.Int("messages", p.Stats.Messages),
	)
	return p, nil
}

type conferenceSummary struct {
	Number   int       `json:"number"`
	Name     string    `json:"name"`
	Messages int       `json:"messages"`
	Threads  int       `json:"threads"`
	Newest   time.Time `json:"newest"`
}

type packetResponse struct {
	ID          string              `json:"id"`
	BBS         qwk.BBSInfo         `json:"bbs"`
	Stats       packet.Stats        `json:"stats"`
	Conferences []conferenceSummary `json:"conferences"`
	Bulletins   []*packet.Bulletin  `json:"bulletins"`
}

func (s *Server) handleGetPacket(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}

	resp := packetResponse{
		ID:          formatID(p.Fingerprint),
		BBS:         p.BBS,
		Stats:       p.Stats,
		Conferences: []conferenceSummary{},
		Bulletins:   p.Bulletins,
	}
	if resp.Bulletins == nil {
		resp.Bulletins = []*packet.Bulletin{}
	}
	for _, c := range p.Conferences {
		resp.Conferences = append(resp.Conferences, conferenceSummary{
			Number:   c.Number,
			Name:     c.Name,
			Messages: c.MessageCount,
			Threads:  len(c.DisplayThreads),
			Newest:   c.NewestDate,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type messageView struct {
	*qwk.Message
	Status  string `json:"status"`
	Display string `json:"display_date"`
}

type threadView struct {
	Root    messageView   `json:"root"`
	Replies []messageView `json:"replies"`
}

type conferenceResponse struct {
	Number   int          `json:"number"`
	Name     string       `json:"name"`
	Messages int          `json:"messages"`
	Threads  []threadView `json:"threads"`
}

func (s *Server) handleGetConference(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}

	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conference number")
		return
	}
	c, ok := p.Conference(number)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("conference %d not in packet", number))
		return
	}

	threads := c.DisplayThreads
	if r.URL.Query().Get("all") == "1" {
		threads = c.Threads
	}

	resp := conferenceResponse{
		Number:   c.Number,
		Name:     c.Name,
		Messages: c.MessageCount,
		Threads:  make([]threadView, 0, len(threads)),
	}
	for _, t := range threads {
		resp.Threads = append(resp.Threads, viewThread(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func viewThread(t *thread.Thread) threadView {
	tv := threadView{
		Root:    viewMessage(t.Root),
		Replies: make([]messageView, 0, len(t.Replies)),
	}
	for _, m := range t.Replies {
		tv.Replies = append(tv.Replies, viewMessage(m))
	}
	return tv
}

func viewMessage(m *qwk.Message) messageView {
	return messageView{
		Message: m,
		Status:  string(rune(m.Status)),
		Display: qwk.FormatDate(m),
	}
}

// lookup resolves the {id} route variable, writing an error response when
// the packet is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*packet.Packet, bool) {
	id := mux.Vars(r)["id"]
	fp, err := strconv.ParseUint(id, 16, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("packet %q not found", id))
		return nil, false
	}
	p, ok := s.packets.Get(fp)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("packet %q not found", id))
		return nil, false
	}
	return p, true
}

func formatID(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
