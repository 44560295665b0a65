package packet

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	pathpkg "path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/notepid/twilight_qwk/internal/logger"
)

// maxFileSize bounds any single file read from a packet.
const maxFileSize = 64 << 20

// Open loads a packet from a directory of extracted files or from a .qwk
// (ZIP) archive.
func Open(path string) (*Packet, error) {
	start := time.Now()

	files, err := ReadFiles(path)
	if err != nil {
		return nil, err
	}

	p, err := Load(files)
	if err != nil {
		return nil, fmt.Errorf("load packet %s: %w", path, err)
	}

	logger.Info("packet loaded",
		zap.String("path", path),
		zap.String("bbs", p.BBS.Name),
		zap.Int("conferences", p.Stats.Conferences),
		zap.Int("messages", p.Stats.Messages),
		zap.Duration("elapsed", time.Since(start)),
	)
	return p, nil
}

// ReadFiles collects the regular files of a packet directory or archive.
func ReadFiles(path string) (Files, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat packet %s: %w", path, err)
	}
	if info.IsDir() {
		return readDir(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open packet %s: %w", path, err)
	}
	defer f.Close()

	return ReadArchive(f, info.Size())
}

func readDir(dir string) (Files, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read packet directory %s: %w", dir, err)
	}

	files := make(Files)
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := readLimited(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		files[e.Name()] = data
	}
	return files, nil
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("read %s: file larger than %d bytes", path, maxFileSize)
	}
	return data, nil
}

// ReadArchive extracts the top-level files of a QWK archive. Nested paths are
// flattened to their base name.
func ReadArchive(r io.ReaderAt, size int64) (Files, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	files := make(Files)
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		if zf.UncompressedSize64 > maxFileSize {
			return nil, fmt.Errorf("archive member %s: larger than %d bytes", zf.Name, maxFileSize)
		}

		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive member %s: %w", zf.Name, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxFileSize+1))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read archive member %s: %w", zf.Name, err)
		}
		if len(data) > maxFileSize {
			return nil, fmt.Errorf("archive member %s: larger than %d bytes", zf.Name, maxFileSize)
		}
		files[pathpkg.Base(zf.Name)] = data
	}
	return files, nil
}
