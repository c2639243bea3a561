// Package scanner enumerates rename candidates for stampname.
package scanner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"stampname/internal/normalizer"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the root path does not exist.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read a directory.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// DirectoryReadError indicates a directory could not be listed for another reason.
	DirectoryReadError ScanErrorType = "DIRECTORY_READ_ERROR"
	// SymlinkError indicates a symlink was encountered with "error" policy.
	SymlinkError ScanErrorType = "SYMLINK_ERROR"
)

// Symlink policy constants
const (
	SymlinkPolicyFollow = "follow"
	SymlinkPolicySkip   = "skip"
	SymlinkPolicyError  = "error"
)

// ScanError represents an error that occurred during directory scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Path + " (" + e.Err.Error() + ")"
	}
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	Recursive     bool   // Descend into subdirectories
	SymlinkPolicy string // "follow", "skip", or "error"
}

// DefaultScanOptions returns the default scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Recursive:     false,
		SymlinkPolicy: SymlinkPolicyFollow,
	}
}

// CandidateEntry is a path found during scanning.
type CandidateEntry struct {
	OriginalPath   string // Path as found on disk
	Name           string // Final path segment as found on disk
	NormalizedName string // Name in NFKC
	IsDirectory    bool
	IsSymlink      bool
}

// ScanResult holds the entries of one root in processing order, plus the
// subtrees that could not be read.
type ScanResult struct {
	Entries []CandidateEntry
	Errors  []error
}

// Walk enumerates the entries under root.
//
// At each directory level, directories come before files and each group is
// sorted by normalized name. A directory is followed by its own subtree when
// opts.Recursive is set. The root itself is never emitted, unless it is a
// regular file, in which case it is the only entry.
//
// An error is returned only when root itself cannot be read. Nested
// directories that fail are recorded in ScanResult.Errors and skipped.
func Walk(root string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Lstat(root)
	if err != nil {
		return nil, classifyError(root, err, DirectoryNotFound)
	}

	// Handle symlink at root level
	if info.Mode()&os.ModeSymlink != 0 {
		switch opts.SymlinkPolicy {
		case SymlinkPolicyError:
			return nil, &ScanError{
				Type: SymlinkError,
				Path: root,
				Err:  errors.New("symlink encountered with error policy"),
			}
		case SymlinkPolicySkip:
			return &ScanResult{}, nil
		default:
			info, err = os.Stat(root)
			if err != nil {
				return nil, classifyError(root, err, DirectoryNotFound)
			}
		}
	}

	if !info.IsDir() {
		name := filepath.Base(root)
		return &ScanResult{
			Entries: []CandidateEntry{{
				OriginalPath:   root,
				Name:           name,
				NormalizedName: normalizer.NormalizeName(name),
			}},
		}, nil
	}

	result := &ScanResult{}
	children, err := readSorted(root, opts, result)
	if err != nil {
		return nil, err
	}

	// Pending entries, top of stack last.
	stack := reversed(children)
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result.Entries = append(result.Entries, entry)

		// Symlinked directories are listed but not descended, which rules out cycles.
		if !entry.IsDirectory || entry.IsSymlink || !opts.Recursive {
			continue
		}

		children, err := readSorted(entry.OriginalPath, opts, result)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		stack = append(stack, reversed(children)...)
	}

	return result, nil
}

// readSorted lists directory in processing order. Symlinks rejected by the
// "error" policy are recorded in result and left out.
func readSorted(directory string, opts ScanOptions, result *ScanResult) ([]CandidateEntry, error) {
	dirEntries, err := os.ReadDir(directory)
	if err != nil {
		return nil, classifyError(directory, err, DirectoryReadError)
	}

	entries := make([]CandidateEntry, 0, len(dirEntries))
	for _, d := range dirEntries {
		fullPath := filepath.Join(directory, d.Name())
		entry := CandidateEntry{
			OriginalPath:   fullPath,
			Name:           d.Name(),
			NormalizedName: normalizer.NormalizeName(d.Name()),
			IsDirectory:    d.IsDir(),
		}

		if d.Type()&fs.ModeSymlink != 0 {
			entry.IsSymlink = true
			switch opts.SymlinkPolicy {
			case SymlinkPolicyError:
				result.Errors = append(result.Errors, &ScanError{
					Type: SymlinkError,
					Path: fullPath,
					Err:  errors.New("symlink encountered with error policy"),
				})
				continue
			case SymlinkPolicySkip:
				continue
			default:
				// Broken links stay file candidates; their metadata read fails later.
				if target, err := os.Stat(fullPath); err == nil {
					entry.IsDirectory = target.IsDir()
				}
			}
		}

		entries = append(entries, entry)
	}

	SortEntries(entries)
	return entries, nil
}

// SortEntries orders entries with directories first, then by normalized
// name, then by raw name so equivalent encodings keep a stable order.
func SortEntries(entries []CandidateEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDirectory != b.IsDirectory {
			return a.IsDirectory
		}
		if !normalizer.Equivalent(a.Name, b.Name) {
			return a.NormalizedName < b.NormalizedName
		}
		return a.Name < b.Name
	})
}

func classifyError(path string, err error, fallback ScanErrorType) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &ScanError{Type: DirectoryNotFound, Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &ScanError{Type: PermissionDenied, Path: path, Err: err}
	default:
		return &ScanError{Type: fallback, Path: path, Err: err}
	}
}

func reversed(entries []CandidateEntry) []CandidateEntry {
	out := make([]CandidateEntry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}
