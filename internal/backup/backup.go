// Package backup keeps timestamped copies of every finalized configuration
// and mirrors user-tier writes into a secondary store.
//
// Both are best effort: failures are logged and never fail the write that
// triggered them.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/customizer/internal/clock"
	"github.com/mrz1836/customizer/internal/constants"
	"github.com/mrz1836/customizer/internal/domain"
	"github.com/mrz1836/customizer/internal/logging"
	"github.com/mrz1836/customizer/internal/store"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Writer writes backup copies into a configuration and a codeset directory.
type Writer struct {
	configDir  string
	codesetDir string
	retention  time.Duration
	clock      clock.Clock
	logger     zerolog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithRetention sets how old a backup must be before Cleanup removes it.
func WithRetention(d time.Duration) Option {
	return func(w *Writer) { w.retention = d }
}

// WithClock sets the clock used for file names and retention.
func WithClock(c clock.Clock) Option {
	return func(w *Writer) { w.clock = c }
}

// WithLogger sets the writer logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Writer) { w.logger = l }
}

// NewWriter creates a Writer for the two backup directories.
func NewWriter(configDir, codesetDir string, opts ...Option) *Writer {
	w := &Writer{
		configDir:  configDir,
		codesetDir: codesetDir,
		retention:  constants.DefaultBackupRetention,
		clock:      clock.RealClock{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FileName returns the backup file name for userKey at t:
// the key with every non-alphanumeric character removed, an underscore and
// a YYYYMMDDHHMMSS UTC timestamp.
func FileName(userKey string, t time.Time) string {
	sanitized := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, userKey)
	return sanitized + "_" + t.UTC().Format(constants.BackupTimestampLayout) + ".csv"
}

// WriteBackups writes config, and codesets when non-empty, into the backup
// directories. Nothing is written without a user key. It returns the paths
// that were written; failures are logged only.
func (w *Writer) WriteBackups(ctx context.Context, params domain.ConfigParams, config, codesets string) []string {
	if params.UserKey == "" {
		return nil
	}
	name := FileName(params.UserKey, w.clock.Now())
	log := w.logger.With().Str("user", logging.MaskEmail(params.UserKey)).Logger()

	var written []string
	for _, b := range []struct {
		dir, content, kind string
	}{
		{w.configDir, config, "config"},
		{w.codesetDir, codesets, "codeset"},
	} {
		if b.content == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		path := filepath.Join(b.dir, name)
		if err := writeFile(path, b.content); err != nil {
			log.Warn().Err(err).
				Str("kind", b.kind).
				Str("path", path).
				Msg("backup write failed")
			continue
		}
		log.Debug().Str("kind", b.kind).Str("path", path).Msg("backup written")
		written = append(written, path)
	}
	return written
}

// Cleanup removes *.csv files older than the retention period from both
// directories concurrently. A missing directory is not an error.
func (w *Writer) Cleanup(ctx context.Context) (int, error) {
	cutoff := w.clock.Now().Add(-w.retention)
	var removed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for _, dir := range []string{w.configDir, w.codesetDir} {
		g.Go(func() error {
			n, err := cleanDir(ctx, dir, cutoff)
			removed.Add(int64(n))
			return err
		})
	}
	err := g.Wait()

	w.logger.Info().
		Int64("removed", removed.Load()).
		Time("cutoff", cutoff).
		Msg("backup cleanup finished")
	return int(removed.Load()), err
}

func cleanDir(ctx context.Context, dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read backup dir %s: %w", dir, err)
	}

	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("failed to remove backup %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create backup dir: %w", err)
	}
	return store.AtomicWrite(path, []byte(content), filePerm)
}

// Mirror copies user-tier writes into a second data directory.
type Mirror struct {
	store  *store.FileStore
	logger zerolog.Logger
}

// NewMirror creates a Mirror rooted at dir. An empty dir returns nil, and a
// nil Mirror ignores writes.
func NewMirror(dir string, logger zerolog.Logger) *Mirror {
	if dir == "" {
		return nil
	}
	return &Mirror{
		store:  store.NewFileStore(dir, store.WithLogger(logger)),
		logger: logger,
	}
}

// Root returns the mirror data directory.
func (m *Mirror) Root() string {
	if m == nil {
		return ""
	}
	return m.store.Root()
}

// Write stores the pair under the mirror's user tier. Errors are logged and
// returned so callers can report them, never to abort.
func (m *Mirror) Write(ctx context.Context, params domain.ConfigParams, config, codesets string) error {
	if m == nil {
		return nil
	}
	if err := m.store.Write(ctx, params, config, codesets); err != nil {
		m.logger.Warn().Err(err).
			Str("org_key", params.OrgKey).
			Str("module_key", params.ModuleKey).
			Str("mirror", m.store.Root()).
			Msg("mirror write failed")
		return err
	}
	return nil
}
