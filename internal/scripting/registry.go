package scripting

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/notepid/twilight_qwk/internal/logger"
)

// Report is a Lua report script found on disk.
type Report struct {
	Name        string // base name without extension
	Path        string
	Description string // first comment line of the script
}

// Registry holds the report scripts discovered in a set of directories.
type Registry struct {
	mu      sync.RWMutex
	reports map[string]*Report
	dirs    []string
}

// NewRegistry creates a registry that scans the given directories.
func NewRegistry(dirs ...string) *Registry {
	return &Registry{
		reports: make(map[string]*Report),
		dirs:    dirs,
	}
}

// Scan discovers the .lua files in the configured directories. A name found
// in more than one directory resolves to the first.
func (r *Registry) Scan() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports = make(map[string]*Report)

	for _, dir := range r.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Debug("script directory does not exist", zap.String("dir", dir))
				continue
			}
			return fmt.Errorf("scan script dir %s: %w", dir, err)
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".lua") {
				continue
			}
			base := strings.TrimSuffix(name, filepath.Ext(name))
			if _, ok := r.reports[base]; ok {
				continue
			}
			path := filepath.Join(dir, name)
			r.reports[base] = &Report{Name: base, Path: path, Description: describe(path)}
		}
	}

	logger.Debug("scanned report scripts", zap.Int("count", len(r.reports)), zap.Strings("dirs", r.dirs))
	return nil
}

// describe returns the text of the leading "--" comment of a script.
func describe(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return ""
	}
	line := strings.TrimSpace(sc.Text())
	if !strings.HasPrefix(line, "--") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(line, "--"))
}

// Get returns a report by name, or nil if not found.
func (r *Registry) Get(name string) *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reports[name]
}

// List returns all reports sorted by name.
func (r *Registry) List() []*Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Report, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, rep)
	}
	slices.SortFunc(out, func(a, b *Report) int { return strings.Compare(a.Name, b.Name) })
	return out
}
