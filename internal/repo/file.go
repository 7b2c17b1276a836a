package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/rc397/FlavorMap/internal/domain"
	"github.com/rc397/FlavorMap/internal/metrics"
)

// FileSpotRepo stores all spots as one pretty-printed JSON array in a single
// file. Every Append is a full read-modify-write of that file, so writers are
// serialized by mu and each rewrite lands atomically via a temp file rename.
// Readers share the read lock and therefore never observe a half-written file.
type FileSpotRepo struct {
	fs     afero.Fs
	path   string
	logger *zap.Logger

	mu sync.RWMutex
}

// NewFileSpotRepo constructs a FileSpotRepo backed by the file at path.
// Nothing touches the filesystem until the first call; use afero.NewOsFs()
// in production and afero.NewMemMapFs() in tests.
func NewFileSpotRepo(fsys afero.Fs, path string, logger *zap.Logger) *FileSpotRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSpotRepo{fs: fsys, path: path, logger: logger}
}

// Path returns the location of the backing file.
func (r *FileSpotRepo) Path() string {
	return r.path
}

// Ensure creates the backing directory and, if the file is missing,
// initializes it to an empty array. It is idempotent.
func (r *FileSpotRepo) Ensure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("repo.FileSpotRepo.Ensure: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensure(); err != nil {
		return fmt.Errorf("repo.FileSpotRepo.Ensure: %w", err)
	}
	return nil
}

// LoadAll reads the backing file. A missing file is initialized to [] first.
// Malformed content is treated as an empty store rather than an error; the
// corruption is logged and counted so operators can tell it apart from a
// genuinely empty file.
func (r *FileSpotRepo) LoadAll(ctx context.Context) ([]domain.Spot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("repo.FileSpotRepo.LoadAll: %w", err)
	}

	r.mu.RLock()
	spots, corrupt, err := r.read()
	r.mu.RUnlock()

	if errors.Is(err, fs.ErrNotExist) {
		if err := r.Ensure(ctx); err != nil {
			return nil, fmt.Errorf("repo.FileSpotRepo.LoadAll: %w", err)
		}
		return []domain.Spot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repo.FileSpotRepo.LoadAll: %w", err)
	}
	if corrupt {
		r.reportCorruption("load")
	}
	return spots, nil
}

// Append reads the current sequence, appends spot, and rewrites the whole
// file. If the current file is corrupt it is moved aside first so the
// unreadable bytes survive for manual recovery.
func (r *FileSpotRepo) Append(ctx context.Context, spot domain.Spot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("repo.FileSpotRepo.Append: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensure(); err != nil {
		return fmt.Errorf("repo.FileSpotRepo.Append: %w", err)
	}
	spots, corrupt, err := r.read()
	if err != nil {
		return fmt.Errorf("repo.FileSpotRepo.Append: %w", err)
	}
	if corrupt {
		r.reportCorruption("append")
		if err := r.quarantine(); err != nil {
			return fmt.Errorf("repo.FileSpotRepo.Append: %w", err)
		}
	}

	data, err := encodeSpots(append(spots, spot))
	if err != nil {
		return fmt.Errorf("repo.FileSpotRepo.Append: encode: %w", err)
	}
	if err := r.writeAtomic(data); err != nil {
		return fmt.Errorf("repo.FileSpotRepo.Append: %w", err)
	}
	return nil
}

// ensure must be called with mu held for writing.
func (r *FileSpotRepo) ensure() error {
	if err := r.fs.MkdirAll(filepath.Dir(r.path), 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	exists, err := afero.Exists(r.fs, r.path)
	if err != nil {
		return fmt.Errorf("stat data file: %w", err)
	}
	if exists {
		return nil
	}
	return r.writeAtomic([]byte("[]"))
}

// read returns the decoded spots and whether the file content was corrupt.
func (r *FileSpotRepo) read() ([]domain.Spot, bool, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		return nil, false, err
	}
	spots, ok := decodeSpots(data)
	return spots, !ok, nil
}

// writeAtomic writes data to a sibling temp file and renames it over path.
func (r *FileSpotRepo) writeAtomic(data []byte) error {
	dir, base := filepath.Dir(r.path), filepath.Base(r.path)
	tmp, err := afero.TempFile(r.fs, dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = r.fs.Remove(name)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = r.fs.Remove(name)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = r.fs.Remove(name)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := r.fs.Rename(name, r.path); err != nil {
		_ = r.fs.Remove(name)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func (r *FileSpotRepo) quarantine() error {
	dest := fmt.Sprintf("%s.corrupt-%d", r.path, time.Now().UnixNano())
	if err := r.fs.Rename(r.path, dest); err != nil {
		return fmt.Errorf("move corrupt data file aside: %w", err)
	}
	r.logger.Warn("corrupt spot store moved aside",
		zap.String("path", r.path),
		zap.String("backup", dest),
	)
	return nil
}

func (r *FileSpotRepo) reportCorruption(op string) {
	metrics.ObserveStoreCorruption()
	r.logger.Warn("spot store is not a JSON array; treating as empty",
		zap.String("path", r.path),
		zap.String("op", op),
	)
}

// decodeSpots parses the file content. ok is false when the content is not a
// JSON array of spots. An empty or whitespace-only file is a valid empty store.
func decodeSpots(data []byte) (spots []domain.Spot, ok bool) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Spot{}, true
	}
	if err := json.Unmarshal(data, &spots); err != nil {
		return []domain.Spot{}, false
	}
	if spots == nil { // a bare "null" document
		return []domain.Spot{}, false
	}
	return spots, true
}

// encodeSpots renders spots as a 2-space indented JSON array. HTML characters
// are kept verbatim so notes like "fish & chips" stay readable on disk.
func encodeSpots(spots []domain.Spot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(spots); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
