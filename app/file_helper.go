package app

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/soliscan/soliscan/internal/constants"
)

// FileHelper provides file collection utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectSolidityFiles collects Solidity files from the given paths.
// Directories are walked recursively; exclude patterns and an optional
// gitignore-style file prune the result. The returned list is sorted so
// analysis order is stable.
func (h *FileHelper) CollectSolidityFiles(paths []string, includePatterns, excludePatterns []string, ignoreFile string) ([]string, error) {
	matcher := h.loadIgnoreMatcher(paths, ignoreFile)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.accept(path, includePatterns, excludePatterns, matcher) {
				files = append(files, path)
			}
			continue
		}

		err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				dirName := filepath.Base(filePath)
				for _, pattern := range excludePatterns {
					if pattern == dirName {
						return filepath.SkipDir
					}
					if matched, _ := filepath.Match(pattern, dirName); matched {
						return filepath.SkipDir
					}
				}
				return nil
			}
			if h.accept(filePath, includePatterns, excludePatterns, matcher) {
				files = append(files, filePath)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// FileExists checks if a path exists and is a regular file
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// IsSolidityFile checks whether a path has the Solidity extension
func (h *FileHelper) IsSolidityFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), constants.SolidityExtension)
}

// loadIgnoreMatcher compiles the first ignore file found next to the
// given paths. A missing or unreadable ignore file just disables
// ignore matching.
func (h *FileHelper) loadIgnoreMatcher(paths []string, ignoreFile string) *ignore.GitIgnore {
	if ignoreFile == "" {
		return nil
	}
	candidates := []string{ignoreFile}
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			candidates = append(candidates, filepath.Join(path, ignoreFile))
		}
	}
	for _, candidate := range candidates {
		if matcher, err := ignore.CompileIgnoreFile(candidate); err == nil {
			return matcher
		}
	}
	return nil
}

func (h *FileHelper) accept(path string, includePatterns, excludePatterns []string, matcher *ignore.GitIgnore) bool {
	if !h.IsSolidityFile(path) {
		return false
	}
	if h.isExcluded(path, excludePatterns) {
		return false
	}
	if matcher != nil && matcher.MatchesPath(path) {
		return false
	}
	if len(includePatterns) == 0 {
		return true
	}
	for _, pattern := range includePatterns {
		if h.matchInclude(pattern, path) {
			return true
		}
	}
	return false
}

// matchInclude matches an include pattern against a file. filepath.Match
// cannot express "at any depth", so a leading "**/" is stripped and the
// remainder matched against the base name; other patterns match the base
// name or the slash-normalized path.
func (h *FileHelper) matchInclude(pattern, path string) bool {
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		pattern = rest
	}
	if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, filepath.ToSlash(path))
	return matched
}

// isExcluded checks whether any whole path segment matches an exclude
// pattern. Matching segments rather than raw substrings keeps short
// patterns like "out" from swallowing files such as Payout.sol.
func (h *FileHelper) isExcluded(path string, excludePatterns []string) bool {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for _, pattern := range excludePatterns {
		for _, segment := range segments {
			if segment == pattern {
				return true
			}
			if matched, _ := filepath.Match(pattern, segment); matched {
				return true
			}
		}
	}
	return false
}

// ResolveFilePaths returns existing files directly or collects Solidity
// files from directories
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	includePatterns []string,
	excludePatterns []string,
	ignoreFile string,
) ([]string, error) {
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}
	if allFiles {
		return paths, nil
	}
	return fileHelper.CollectSolidityFiles(paths, includePatterns, excludePatterns, ignoreFile)
}
