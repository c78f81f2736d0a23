package service

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zen-web-components/photo-viewer/internal/logging"
)

// FileScanner abstracts file scanning.
type FileScanner interface {
	Run(ctx context.Context, dir string, extensions map[string]bool) <-chan string
}

// ScannerService discovers image files and feeds them into a playlist.
type ScannerService struct {
	FileScan   FileScanner
	Extensions map[string]bool // Supported image extensions
	log        logging.Logger
}

// DefaultExtensions lists the file types the loader can decode.
func DefaultExtensions() map[string]bool {
	return map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
		".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
	}
}

// NewScannerService constructs a ScannerService.
func NewScannerService(fileScan FileScanner, log logging.Logger) *ScannerService {
	if fileScan == nil {
		fileScan = DirScanner{}
	}
	return &ScannerService{
		FileScan:   fileScan,
		Extensions: DefaultExtensions(),
		log:        logging.OrNop(log),
	}
}

// IsImage reports whether path has a supported extension.
func (s *ScannerService) IsImage(path string) bool {
	return s.Extensions[strings.ToLower(filepath.Ext(path))]
}

// Collect scans root and adds the images it finds to p in batches so the UI
// sees the count grow during long scans. A root that is a single file is
// added as is. It returns the number of sources added.
func (s *ScannerService) Collect(ctx context.Context, root string, p *Playlist) int {
	if fi, err := os.Stat(root); err == nil && !fi.IsDir() {
		p.Add(root)
		return 1
	}

	const batchSize = 1000
	const batchTimeout = 100 * time.Millisecond

	found := s.FileScan.Run(ctx, root, s.Extensions)
	batch := make([]string, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()

	total := 0
	flush := func() {
		if len(batch) > 0 {
			p.Add(batch...)
			total += len(batch)
			batch = batch[:0]
		}
	}

	for {
		select {
		case item, ok := <-found:
			if !ok {
				flush()
				s.log.Info("scan complete", "root", root, "images", total)
				return total
			}
			batch = append(batch, item)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return total
		}
	}
}

// DirScanner walks a directory tree, emitting image paths in lexical order
// per directory.
type DirScanner struct {
	Log logging.Logger
}

func (d DirScanner) Run(ctx context.Context, dir string, extensions map[string]bool) <-chan string {
	out := make(chan string, 64)
	log := logging.OrNop(d.Log)
	go func() {
		defer close(out)
		err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				log.Warn("skipping unreadable path", "path", path, "error", err)
				if entry != nil && entry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if entry.IsDir() {
				if path != dir && strings.HasPrefix(entry.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if !extensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			select {
			case out <- path:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Warn("scan failed", "root", dir, "error", err)
		}
	}()
	return out
}
