// Package store provides the tiered configuration file hierarchy.
//
// A module's configuration is looked up in three tiers, first hit wins:
//
//	users/{org}/{module}/config.csv                                     user
//	configurations/industry-configurations/{industry}/{module}/config.csv industry
//	configurations/base-configurations/{module}/config.csv              base
//
// Writes always go to the user tier, one file at a time, each through a
// temporary file and rename. A per-module advisory lock serializes
// read-modify-write cycles inside one host.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/customizer/internal/codeset"
	"github.com/mrz1836/customizer/internal/constants"
	"github.com/mrz1836/customizer/internal/ctxutil"
	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/flock"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Store defines the configuration persistence operations.
type Store interface {
	// Resolve returns the highest-precedence tier holding a configuration file.
	// Returns ErrNoConfigurationFound if no tier has one.
	Resolve(ctx context.Context, params domain.ConfigParams) (Resolution, error)

	// UserConfigExists reports whether the user tier has a configuration file.
	UserConfigExists(ctx context.Context, orgKey, moduleKey string) (bool, error)

	// MaterializeUserCopy copies the industry or base template into the user
	// tier when the user tier is empty. Returns true when files were created.
	MaterializeUserCopy(ctx context.Context, params domain.ConfigParams) (bool, error)

	// Read resolves and reads the configuration and codeset pair.
	Read(ctx context.Context, params domain.ConfigParams) (*domain.ConfigFiles, error)

	// Write persists the pair to the user tier. An empty codeset is not written.
	Write(ctx context.Context, params domain.ConfigParams, config, codesets string) error

	// Update runs a locked read-modify-write cycle on one module.
	Update(ctx context.Context, params domain.ConfigParams, fn UpdateFunc) error
}

// UpdateFunc receives the current files and returns the content to write.
// Returning an empty codeset leaves the codeset file untouched.
type UpdateFunc func(current *domain.ConfigFiles) (config, codesets string, err error)

// Resolution is the outcome of a tier lookup.
type Resolution struct {
	Tier        domain.Tier `json:"tier"`
	Dir         string      `json:"dir"`
	ConfigPath  string      `json:"configPath"`
	CodesetPath string      `json:"codesetPath"`
}

// FileStore implements Store on the local filesystem.
type FileStore struct {
	root        string
	lockTimeout time.Duration
	logger      zerolog.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLockTimeout overrides the module lock timeout.
func WithLockTimeout(d time.Duration) Option {
	return func(s *FileStore) { s.lockTimeout = d }
}

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *FileStore) { s.logger = l }
}

// NewFileStore creates a FileStore rooted at root. An empty root uses ./data.
func NewFileStore(root string, opts ...Option) *FileStore {
	if root == "" {
		root = constants.DefaultDataDir
	}
	s := &FileStore{
		root:        root,
		lockTimeout: constants.DefaultLockTimeout,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the data directory.
func (s *FileStore) Root() string {
	return s.root
}

// EnsureLayout creates the user, industry and base roots.
func (s *FileStore) EnsureLayout(ctx context.Context) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	for _, dir := range []string{
		filepath.Join(s.root, constants.UsersDir),
		filepath.Join(s.root, constants.ConfigurationsDir, constants.IndustryConfigurationsDir),
		filepath.Join(s.root, constants.ConfigurationsDir, constants.BaseConfigurationsDir),
	} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Resolve returns the first tier with a configuration file.
func (s *FileStore) Resolve(ctx context.Context, params domain.ConfigParams) (Resolution, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return Resolution{}, err
	}
	if err := validateParams(params); err != nil {
		return Resolution{}, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	for _, res := range s.candidates(params) {
		exists, err := fileExists(res.ConfigPath)
		if err != nil {
			return Resolution{}, fmt.Errorf("failed to check %s tier: %w", res.Tier, err)
		}
		if exists {
			return res, nil
		}
	}

	return Resolution{}, fmt.Errorf("module %s for org %s: %w",
		params.ModuleKey, params.OrgKey, cerrors.ErrNoConfigurationFound)
}

// UserConfigExists reports whether users/{org}/{module}/config.csv exists.
func (s *FileStore) UserConfigExists(ctx context.Context, orgKey, moduleKey string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}
	params := domain.ConfigParams{OrgKey: orgKey, ModuleKey: moduleKey}
	if err := validateParams(params); err != nil {
		return false, fmt.Errorf("failed to check user configuration: %w", err)
	}
	return fileExists(s.tierAt(domain.TierUser, params).ConfigPath)
}

// MaterializeUserCopy copies config.csv and codesetvalues.csv into the user
// tier, each from the industry tier when present there, else from the base
// tier. The codeset copy carries orgKey in its header rows; a codeset missing
// from both tiers gets a stub file. Templates are never modified.
func (s *FileStore) MaterializeUserCopy(ctx context.Context, params domain.ConfigParams) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}
	if err := validateParams(params); err != nil {
		return false, fmt.Errorf("failed to materialize user copy: %w", err)
	}

	lock, err := s.lock(ctx, params)
	if err != nil {
		return false, fmt.Errorf("failed to materialize user copy: %w", err)
	}
	defer func() { _ = lock.Release() }()

	user := s.tierAt(domain.TierUser, params)
	if exists, err := fileExists(user.ConfigPath); err != nil || exists {
		return false, err
	}

	templates := s.candidates(params)[1:]
	configSrc, err := firstExisting(templates, func(r Resolution) string { return r.ConfigPath })
	if err != nil {
		return false, err
	}
	if configSrc == "" {
		return false, fmt.Errorf("no template for module %s: %w", params.ModuleKey, cerrors.ErrNoConfigurationFound)
	}
	codesetSrc, err := firstExisting(templates, func(r Resolution) string { return r.CodesetPath })
	if err != nil {
		return false, err
	}

	if err := os.MkdirAll(user.Dir, dirPerm); err != nil {
		return false, fmt.Errorf("failed to create user directory: %w", err)
	}

	if err := copyFile(configSrc, user.ConfigPath); err != nil {
		return false, fmt.Errorf("failed to copy configuration template: %w", err)
	}

	if codesetSrc == "" {
		err = AtomicWrite(user.CodesetPath, []byte(constants.CodesetStubContent), filePerm)
	} else {
		err = copyCodeset(codesetSrc, user.CodesetPath, params.OrgKey)
	}
	if err != nil {
		return false, fmt.Errorf("failed to copy codeset template: %w", err)
	}

	s.logger.Info().
		Str("org_key", params.OrgKey).
		Str("module_key", params.ModuleKey).
		Str("config_source", configSrc).
		Msg("materialized user configuration")
	return true, nil
}

// Read resolves the module and reads both files. A missing codeset file
// reads as empty content.
func (s *FileStore) Read(ctx context.Context, params domain.ConfigParams) (*domain.ConfigFiles, error) {
	res, err := s.Resolve(ctx, params)
	if err != nil {
		return nil, err
	}
	return readResolution(res)
}

// Write persists config and codeset to the user tier. The two files are
// written independently; a codeset failure leaves the new config in place.
func (s *FileStore) Write(ctx context.Context, params domain.ConfigParams, config, codesets string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := validateParams(params); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	lock, err := s.lock(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	defer func() { _ = lock.Release() }()

	return s.writeLocked(params, config, codesets)
}

// Update resolves and reads the module, passes the files to fn and writes the
// result to the user tier, all while holding the module lock.
func (s *FileStore) Update(ctx context.Context, params domain.ConfigParams, fn UpdateFunc) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := validateParams(params); err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}

	lock, err := s.lock(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}
	defer func() { _ = lock.Release() }()

	res, err := s.Resolve(ctx, params)
	if err != nil {
		return err
	}
	current, err := readResolution(res)
	if err != nil {
		return err
	}

	config, codesets, err := fn(current)
	if err != nil {
		return err
	}
	return s.writeLocked(params, config, codesets)
}

// ListUserModules returns the module keys with a user-tier configuration for orgKey.
func (s *FileStore) ListUserModules(ctx context.Context, orgKey string) ([]string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if err := validateKey("orgKey", orgKey); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, constants.UsersDir, orgKey)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list user modules: %w", err)
	}

	modules := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if ok, _ := fileExists(filepath.Join(dir, e.Name(), constants.ConfigFileName)); ok {
			modules = append(modules, e.Name())
		}
	}
	sort.Strings(modules)
	return modules, nil
}

func (s *FileStore) writeLocked(params domain.ConfigParams, config, codesets string) error {
	user := s.tierAt(domain.TierUser, params)
	if err := os.MkdirAll(user.Dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create user directory: %w", err)
	}

	if err := AtomicWrite(user.ConfigPath, []byte(config), filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", constants.ConfigFileName, err)
	}
	if codesets != "" {
		if err := AtomicWrite(user.CodesetPath, []byte(codesets), filePerm); err != nil {
			return fmt.Errorf("failed to write %s: %w", constants.CodesetFileName, err)
		}
	}

	s.logger.Debug().
		Str("org_key", params.OrgKey).
		Str("module_key", params.ModuleKey).
		Bool("codeset_written", codesets != "").
		Msg("configuration written")
	return nil
}

func (s *FileStore) lock(ctx context.Context, params domain.ConfigParams) (*flock.Lock, error) {
	path := filepath.Join(s.root, constants.UsersDir, params.OrgKey, params.ModuleKey+constants.LockFileSuffix)
	return flock.Acquire(ctx, path, s.lockTimeout)
}

// candidates lists the tiers in precedence order. The industry tier is
// skipped when no industry is given.
func (s *FileStore) candidates(params domain.ConfigParams) []Resolution {
	out := []Resolution{s.tierAt(domain.TierUser, params)}
	if params.Industry != "" {
		out = append(out, s.tierAt(domain.TierIndustry, params))
	}
	return append(out, s.tierAt(domain.TierBase, params))
}

func (s *FileStore) tierAt(tier domain.Tier, params domain.ConfigParams) Resolution {
	var dir string
	switch tier {
	case domain.TierUser:
		dir = filepath.Join(s.root, constants.UsersDir, params.OrgKey, params.ModuleKey)
	case domain.TierIndustry:
		dir = filepath.Join(s.root, constants.ConfigurationsDir, constants.IndustryConfigurationsDir, params.Industry, params.ModuleKey)
	case domain.TierBase:
		dir = filepath.Join(s.root, constants.ConfigurationsDir, constants.BaseConfigurationsDir, params.ModuleKey)
	}
	return Resolution{
		Tier:        tier,
		Dir:         dir,
		ConfigPath:  filepath.Join(dir, constants.ConfigFileName),
		CodesetPath: filepath.Join(dir, constants.CodesetFileName),
	}
}

func readResolution(res Resolution) (*domain.ConfigFiles, error) {
	config, err := os.ReadFile(res.ConfigPath) //#nosec G304 -- path is built from validated keys
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", constants.ConfigFileName, err)
	}

	codesets, err := os.ReadFile(res.CodesetPath) //#nosec G304 -- path is built from validated keys
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", constants.CodesetFileName, err)
	}

	return &domain.ConfigFiles{
		Tier:           res.Tier,
		ConfigPath:     res.ConfigPath,
		ConfigContent:  string(config),
		CodesetContent: string(codesets),
	}, nil
}

func firstExisting(tiers []Resolution, pick func(Resolution) string) (string, error) {
	for _, t := range tiers {
		p := pick(t)
		ok, err := fileExists(p)
		if err != nil {
			return "", err
		}
		if ok {
			return p, nil
		}
	}
	return "", nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src) //#nosec G304 -- template path is built from validated keys
	if err != nil {
		return err
	}
	return AtomicWrite(dst, data, filePerm)
}

// copyCodeset copies a codeset template with its header rows stamped with orgKey.
func copyCodeset(src, dst, orgKey string) error {
	data, err := os.ReadFile(src) //#nosec G304 -- template path is built from validated keys
	if err != nil {
		return err
	}
	return AtomicWrite(dst, []byte(codeset.ApplyOrgKey(string(data), orgKey)), filePerm)
}

func validateParams(params domain.ConfigParams) error {
	if err := validateKey("orgKey", params.OrgKey); err != nil {
		return err
	}
	if err := validateKey("moduleKey", params.ModuleKey); err != nil {
		return err
	}
	if params.Industry != "" {
		return validateKey("industry", params.Industry)
	}
	return nil
}

// validateKey rejects empty keys and keys that would leave their directory.
func validateKey(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s: %w", name, cerrors.ErrMissingParameters)
	}
	if value == "." || strings.Contains(value, "..") || strings.ContainsAny(value, `/\`) || strings.ContainsRune(value, 0) {
		return fmt.Errorf("%s %q: %w", name, value, cerrors.ErrPathTraversal)
	}
	return nil
}
