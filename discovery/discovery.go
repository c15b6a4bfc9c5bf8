// Package discovery lists the instance directories of a submission root.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ExcludedDir is never treated as an instance, whatever its case.
const ExcludedDir = "misc"

var (
	ErrNotADirectory = errors.New("submission root does not exist or is not a directory")
	ErrBadPattern    = errors.New("invalid instance pattern")
)

// FindInstanceDirs returns the paths of the instance directories below root, sorted
// case-insensitively by name. An empty pattern matches every directory, otherwise pattern
// is a shell-style wildcard: * ? [seq] [!seq], everything else literal.
func FindInstanceDirs(root, pattern string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrap(ErrNotADirectory, root)
	}

	glob := fnmatchToGlob(pattern)
	if pattern != "" && !doublestar.ValidatePattern(glob) {
		return nil, errors.Wrap(ErrBadPattern, pattern)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", root)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		// Stat follows symlinks, entry.IsDir does not.
		fi, err := os.Stat(filepath.Join(root, name))
		if err != nil {
			log.Debugf("skipping %s: %v", name, err)

			continue
		}
		if !fi.IsDir() || strings.EqualFold(name, ExcludedDir) {
			continue
		}
		if pattern != "" {
			matched, err := doublestar.Match(glob, name)
			if err != nil {
				return nil, errors.Wrap(ErrBadPattern, pattern)
			}
			if !matched {
				log.Debugf("skipping %s: does not match %q", name, pattern)

				continue
			}
		}
		names = append(names, name)
	}

	sort.SliceStable(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}

		return names[i] < names[j]
	})

	dirs := make([]string, 0, len(names))
	for _, name := range names {
		dirs = append(dirs, filepath.Join(root, name))
	}

	return dirs, nil
}

// fnmatchToGlob rewrites a shell-style wildcard into a doublestar pattern with the same
// meaning. Braces and backslashes are escaped, a [ without a closing ] is literal, and a
// class may start with ] or ^ as literal characters.
func fnmatchToGlob(pattern string) string {
	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '\\', '{', '}', ']':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '[':
			j := i + 1
			if j < len(pattern) && pattern[j] == '!' {
				j++
			}
			if j < len(pattern) && pattern[j] == ']' {
				j++
			}
			end := strings.IndexByte(pattern[j:], ']')
			if end < 0 {
				sb.WriteString(`\[`)

				continue
			}
			end += j
			writeClass(&sb, pattern[i+1:end])
			i = end
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

func writeClass(sb *strings.Builder, class string) {
	sb.WriteByte('[')
	if strings.HasPrefix(class, "!") {
		sb.WriteByte('!')
		class = class[1:]
	}
	for k := 0; k < len(class); k++ {
		c := class[k]
		switch {
		case c == '\\' || c == ']':
			sb.WriteByte('\\')
		case c == '^' && k == 0:
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte(']')
}
