package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DiscoveryTestSuite struct {
	suite.Suite

	root string
}

func TestDiscoveryTestSuite(t *testing.T) {
	suite.Run(t, new(DiscoveryTestSuite))
}

func (ts *DiscoveryTestSuite) SetupTest() {
	ts.root = ts.T().TempDir()

	for _, dir := range []string{"vrp_b", "Misc", "tsp_a", "VRP_a", "ms_03"} {
		ts.Require().NoError(os.Mkdir(filepath.Join(ts.root, dir), 0750))
	}
	ts.Require().NoError(os.WriteFile(filepath.Join(ts.root, "notes.txt"), []byte("ignored"), 0600))
}

func (ts *DiscoveryTestSuite) names(dirs []string) []string {
	var names []string
	for _, d := range dirs {
		names = append(names, filepath.Base(d))
	}

	return names
}

func (ts *DiscoveryTestSuite) TestFindInstanceDirs() {
	dirs, err := FindInstanceDirs(ts.root, "")
	ts.Require().NoError(err)
	ts.Equal([]string{"ms_03", "tsp_a", "VRP_a", "vrp_b"}, ts.names(dirs))
	ts.Equal(filepath.Join(ts.root, "ms_03"), dirs[0])
}

func (ts *DiscoveryTestSuite) TestFindInstanceDirs_Pattern() {
	dirs, err := FindInstanceDirs(ts.root, "vrp_*")
	ts.Require().NoError(err)
	ts.Equal([]string{"vrp_b"}, ts.names(dirs))

	dirs, err = FindInstanceDirs(ts.root, "[mt]?_*")
	ts.Require().NoError(err)
	ts.Equal([]string{"ms_03"}, ts.names(dirs))

	dirs, err = FindInstanceDirs(ts.root, "[!v]*")
	ts.Require().NoError(err)
	ts.Equal([]string{"ms_03", "tsp_a", "VRP_a"}, ts.names(dirs))

	dirs, err = FindInstanceDirs(ts.root, "nothing*")
	ts.Require().NoError(err)
	ts.Empty(dirs)
}

func (ts *DiscoveryTestSuite) TestFindInstanceDirs_LiteralCharacters() {
	for _, dir := range []string{"{tsp,ms}_1", `w\x`, "vrp_[", "a]b"} {
		ts.Require().NoError(os.Mkdir(filepath.Join(ts.root, dir), 0750))
	}

	for pattern, expected := range map[string][]string{
		"{tsp,ms}_*": {"{tsp,ms}_1"},
		`w\x`:        {`w\x`},
		"vrp_[":      {"vrp_["},
		"a]*":        {"a]b"},
	} {
		dirs, err := FindInstanceDirs(ts.root, pattern)
		ts.Require().NoError(err, pattern)
		ts.Equal(expected, ts.names(dirs), pattern)
	}
}

func (ts *DiscoveryTestSuite) TestFnmatchToGlob() {
	ts.Equal(`vrp_*`, fnmatchToGlob("vrp_*"))
	ts.Equal(`\{a,b\}`, fnmatchToGlob("{a,b}"))
	ts.Equal(`a\\b`, fnmatchToGlob(`a\b`))
	ts.Equal(`vrp_\[1`, fnmatchToGlob("vrp_[1"))
	ts.Equal(`[!a-c]x`, fnmatchToGlob("[!a-c]x"))
	ts.Equal(`[\]a]`, fnmatchToGlob("[]a]"))
	ts.Equal(`[\^a]`, fnmatchToGlob("[^a]"))
}

func (ts *DiscoveryTestSuite) TestFindInstanceDirs_Symlink() {
	target := filepath.Join(ts.T().TempDir(), "linked")
	ts.Require().NoError(os.Mkdir(target, 0750))
	ts.Require().NoError(os.Symlink(target, filepath.Join(ts.root, "linked")))

	dirs, err := FindInstanceDirs(ts.root, "link*")
	ts.Require().NoError(err)
	ts.Equal([]string{"linked"}, ts.names(dirs))
}

func (ts *DiscoveryTestSuite) TestFindInstanceDirs_NotADirectory() {
	_, err := FindInstanceDirs(filepath.Join(ts.root, "missing"), "")
	ts.True(errors.Is(err, ErrNotADirectory))

	_, err = FindInstanceDirs(filepath.Join(ts.root, "notes.txt"), "")
	ts.True(errors.Is(err, ErrNotADirectory))
}
