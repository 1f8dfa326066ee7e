// Package catalog enumerates the test catalog of a Python e2e test suite:
// every function registered with a register_test_case decorator is one test
// case, identified by the function name.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/xfail/pkg/domain"
	"github.com/specvital/xfail/pkg/source"
)

const (
	// DefaultWorkers indicates that the scanner should use GOMAXPROCS as the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default scan timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size for scanning (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// Scan phases reported in ScanError.
const (
	PhaseDiscovery = "discovery"
	PhaseParsing   = "parsing"
	PhaseCatalog   = "catalog"
)

// DefaultDecorators are the decorators that register a test case.
var DefaultDecorators = []string{"register_test_case"}

// DefaultSkipPatterns contains directory names that are skipped by default during scanning.
var DefaultSkipPatterns = []string{
	".git",
	"__pycache__",
	".venv",
	"venv",
	"build",
	"node_modules",
	".mypy_cache",
	".pytest_cache",
}

var (
	// ErrScanCancelled is returned when scanning is cancelled via context.
	ErrScanCancelled = errors.New("scanner: scan cancelled")
	// ErrScanTimeout is returned when scanning exceeds the timeout duration.
	ErrScanTimeout = errors.New("scanner: scan timeout")
)

// Scanner enumerates test cases from a source tree.
type Scanner struct {
	options *ScanOptions
}

// ScanResult contains the outcome of a scan operation.
type ScanResult struct {
	// Catalog contains all enumerated test cases.
	Catalog *domain.Catalog

	// Errors contains non-fatal errors encountered during scanning.
	Errors []ScanError

	// Stats provides scan statistics.
	Stats ScanStats
}

// ScanError represents an error that occurred during a specific phase of scanning.
type ScanError struct {
	// Err is the underlying error.
	Err error

	// Path is the file path where the error occurred (may be empty for non-file errors).
	Path string

	// Phase indicates which phase the error occurred in.
	// Values: "discovery", "parsing", "catalog"
	Phase string
}

// Error implements the error interface.
func (e ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e ScanError) Unwrap() error {
	return e.Err
}

// ScanStats provides statistics about the scan operation.
type ScanStats struct {
	// FilesScanned is the total number of suite file candidates discovered.
	FilesScanned int

	// FilesMatched is the number of files that registered at least one test case.
	FilesMatched int

	// FilesFailed is the number of files that failed to parse.
	FilesFailed int

	// Duplicates is the number of test identifiers registered more than once.
	Duplicates int

	// Duration is the total scan duration.
	Duration time.Duration
}

// ErrDuplicateTestCase is reported when two functions register the same identifier.
var ErrDuplicateTestCase = errors.New("catalog: duplicate test case")

// NewScanner creates a new scanner with the given options.
func NewScanner(opts ...ScanOption) *Scanner {
	options := &ScanOptions{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &Scanner{options: options}
}

// Scan performs the complete enumeration:
//  1. Discover suite files
//  2. Parse files in parallel
//  3. Merge test cases into a catalog, reporting duplicates
//
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) Scan(ctx context.Context, src source.Source) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := &ScanResult{
		Catalog: domain.NewCatalog(src.Root(), nil),
		Errors:  []ScanError{},
	}

	files, errs := s.discoverFiles(ctx, src)
	for _, err := range errs {
		result.Errors = append(result.Errors, ScanError{
			Err:   err,
			Phase: PhaseDiscovery,
		})
	}
	result.Stats.FilesScanned = len(files)

	if len(files) > 0 {
		s.scanFiles(ctx, src, files, result)
	}

	result.Stats.Duration = time.Since(startTime)
	return result, scanContextError(ctx)
}

// ScanFiles scans specific files relative to the source root,
// bypassing discovery.
//
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) ScanFiles(ctx context.Context, src source.Source, files []string) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := &ScanResult{
		Catalog: domain.NewCatalog(src.Root(), nil),
		Errors:  []ScanError{},
		Stats:   ScanStats{FilesScanned: len(files)},
	}

	if len(files) > 0 {
		s.scanFiles(ctx, src, files, result)
	}

	result.Stats.Duration = time.Since(startTime)
	return result, scanContextError(ctx)
}

func scanContextError(ctx context.Context) error {
	err := ctx.Err()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrScanTimeout
	case errors.Is(err, context.Canceled):
		return ErrScanCancelled
	default:
		return nil
	}
}

func (s *Scanner) scanFiles(ctx context.Context, src source.Source, files []string, result *ScanResult) {
	perFile, scanErrors := s.parseFilesParallel(ctx, src, files)
	result.Errors = append(result.Errors, scanErrors...)
	result.Stats.FilesFailed = len(scanErrors)

	var cases []domain.TestCase
	seen := make(map[string]domain.Location)
	for _, fc := range perFile {
		if len(fc.cases) > 0 {
			result.Stats.FilesMatched++
		}
		for _, tc := range fc.cases {
			if first, dup := seen[tc.Name]; dup {
				result.Stats.Duplicates++
				result.Errors = append(result.Errors, ScanError{
					Err:   fmt.Errorf("%w %s (first defined at %s:%d)", ErrDuplicateTestCase, tc.Name, first.File, first.Line),
					Path:  tc.Location.File,
					Phase: PhaseCatalog,
				})
				continue
			}
			seen[tc.Name] = tc.Location
			cases = append(cases, tc)
		}
	}

	result.Catalog = domain.NewCatalog(src.Root(), cases)
}

// discoverFiles walks the source root to find suite file candidates.
// Returns relative, slash-separated paths from the source root.
func (s *Scanner) discoverFiles(ctx context.Context, src source.Source) ([]string, []error) {
	rootPath := src.Root()
	skipSet := buildSkipSet(append(append([]string{}, DefaultSkipPatterns...), s.options.ExcludePatterns...))

	var (
		files []string
		errs  []error
	)

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			errs = append(errs, fmt.Errorf("access error at %s: %w", path, walkErr))
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(path, rootPath, skipSet) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isSuiteFileCandidate(path) {
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("compute relative path for %s: %w", path, err))
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if len(s.options.Patterns) > 0 && !matchesAnyPattern(relPath, s.options.Patterns) {
			return nil
		}

		if s.options.MaxFileSize > 0 {
			info, err := d.Info()
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to get file info for %s: %w", path, err))
				return nil
			}
			if info.Size() > s.options.MaxFileSize {
				return nil
			}
		}

		files = append(files, relPath)
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		errs = append(errs, err)
	}

	sort.Strings(files)
	return files, errs
}

type fileCases struct {
	path  string
	cases []domain.TestCase
}

func (s *Scanner) parseFilesParallel(ctx context.Context, src source.Source, files []string) ([]fileCases, []ScanError) {
	workers := s.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu         sync.Mutex
		parsed     = make([]fileCases, 0, len(files))
		scanErrors = make([]ScanError, 0)
	)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			cases, err := s.parseFile(gCtx, src, file)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				scanErrors = append(scanErrors, ScanError{
					Err:   err,
					Path:  file,
					Phase: PhaseParsing,
				})
				return nil
			}
			parsed = append(parsed, fileCases{path: file, cases: cases})
			return nil
		})
	}

	_ = g.Wait()

	// Goroutines complete in arbitrary order; duplicate resolution must
	// keep the first definition in path order.
	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].path < parsed[j].path
	})
	sort.Slice(scanErrors, func(i, j int) bool {
		return scanErrors[i].Path < scanErrors[j].Path
	})

	return parsed, scanErrors
}

func (s *Scanner) parseFile(ctx context.Context, src source.Source, path string) ([]domain.TestCase, error) {
	content, err := readFileFromSource(ctx, src, path)
	if err != nil {
		return nil, err
	}
	return ParseSource(ctx, content, path, s.options.Decorators)
}

// readFileFromSource reads a file from source using relative path.
func readFileFromSource(ctx context.Context, src source.Source, relPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := src.Open(ctx, relPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", relPath, err)
	}

	return content, nil
}

func buildSkipSet(patterns []string) map[string]bool {
	skipSet := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		skipSet[p] = true
	}
	return skipSet
}

func shouldSkipDir(path, rootPath string, skipSet map[string]bool) bool {
	if path == rootPath {
		return false
	}
	return skipSet[filepath.Base(path)]
}

func isSuiteFileCandidate(path string) bool {
	if strings.ToLower(filepath.Ext(path)) != ".py" {
		return false
	}
	base := filepath.Base(path)
	// Package markers and setup scripts never register test cases.
	return base != "setup.py" && base != "conftest.py"
}

func matchesAnyPattern(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Scan enumerates src with a scanner built from opts.
func Scan(ctx context.Context, src source.Source, opts ...ScanOption) (*ScanResult, error) {
	return NewScanner(opts...).Scan(ctx, src)
}
