// Package solutions resolves the solution files of an instance directory.
package solutions

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/benchlib/submission-validator/model"
	"github.com/docker/go-units"
	log "github.com/sirupsen/logrus"
)

// DirName is the subdirectory holding numbered solution files.
const DirName = "solutions"

const (
	singlePattern = `^%s_solution\.(?P<ext>[^./\\]+)$`
	multiPattern  = `^%s_solution_(?P<idx>[0-9]+)\.(?P<ext>[^./\\]+)$`
)

// Collect finds the solution files of instance in dir and records what it finds on report.
// Either a single <instance>_solution.<ext> file or a solutions/ directory with
// <instance>_solution_<N>.<ext> files numbered from 0 is accepted, never both.
func Collect(instance, dir string, report *model.InstanceReport) []*model.SolutionFile {
	singleRe := regexp.MustCompile(fmt.Sprintf(singlePattern, regexp.QuoteMeta(instance)))
	multiRe := regexp.MustCompile(fmt.Sprintf(multiPattern, regexp.QuoteMeta(instance)))

	singles := matchFiles(dir, singleRe)
	sort.Slice(singles, func(i, j int) bool { return singles[i].Path < singles[j].Path })

	solDir := filepath.Join(dir, DirName)
	var multis []*model.SolutionFile
	if fi, err := os.Stat(solDir); err == nil && fi.IsDir() {
		multis = matchFiles(solDir, multiRe)
		sort.SliceStable(multis, func(i, j int) bool {
			if multis[i].Index != multis[j].Index {
				return multis[i].Index < multis[j].Index
			}

			return multis[i].Path < multis[j].Path
		})
	}

	if _, err := os.Stat(solDir); len(singles) > 0 && err == nil {
		report.Fail("Found both a single solution file AND a 'solutions/' directory. Choose one approach.")

		return nil
	}

	if len(singles) == 0 && len(multis) == 0 {
		report.Failf("Missing solution: either a single '%s_solution.<ext>' file "+
			"or a '%s/' directory with '%s_solution_<N>.<ext>' files.", instance, DirName, instance)

		return nil
	}

	if len(singles) > 0 {
		report.Infof("Found single solution file: %s", filepath.Base(singles[0].Path))
		if len(singles) > 1 {
			names := make([]string, len(singles))
			for i, s := range singles {
				names[i] = filepath.Base(s.Path)
			}
			report.Warn(fmt.Sprintf("Multiple single solution files found: %s.", strings.Join(names, ", ")))
		}

		return singles
	}

	indices := make([]int, len(multis))
	expected := make([]int, len(multis))
	for i, s := range multis {
		indices[i] = s.Index
		expected[i] = i
	}
	if !slices.Equal(indices, expected) {
		report.Failf("'%s/' files must be consecutively numbered from 0: found indices %s, expected %s.",
			DirName, intList(indices), intList(expected))
	}
	report.Infof("Found %d solutions in '%s/'.", len(multis), DirName)

	return multis
}

// matchFiles returns the regular files of dir whose name matches re. The index is taken from
// the idx group when re has one, otherwise it is -1.
func matchFiles(dir string, re *regexp.Regexp) []*model.SolutionFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debugf("failed to list %s due to: %v", dir, err)

		return nil
	}

	idxGroup := re.SubexpIndex("idx")

	var files []*model.SolutionFile
	for _, entry := range entries {
		match := re.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		index := -1
		if idxGroup >= 0 {
			index, err = strconv.Atoi(match[idxGroup])
			if err != nil {
				log.Warnf("skipping %s: index out of range", path)

				continue
			}
		}

		log.Debugf("solution file %s (%s)", path, units.HumanSize(float64(fi.Size())))
		files = append(files, &model.SolutionFile{Path: path, Index: index, Size: fi.Size()})
	}

	return files
}

// intList renders values as [0, 1, 2].
func intList(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
