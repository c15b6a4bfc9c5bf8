package checker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benchlib/submission-validator/internal/commandexecutor"
	"github.com/benchlib/submission-validator/model"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CheckerTestSuite struct {
	suite.Suite

	mockCommandExecutor *mockCommandExecutor
	report              *model.InstanceReport
	target              Target
}

func TestCheckerTestSuite(t *testing.T) {
	suite.Run(t, new(CheckerTestSuite))
}

type mockCommandExecutor struct {
	mock.Mock
}

func (m *mockCommandExecutor) Execute(_ context.Context, name string, args ...string) (*commandexecutor.Output, error) {
	mockArgs := m.Called(name, args)

	if val, ok := mockArgs.Get(0).(*commandexecutor.Output); ok {
		return val, mockArgs.Error(1)
	}

	return nil, mockArgs.Error(1)
}

func (ts *CheckerTestSuite) SetupTest() {
	ts.mockCommandExecutor = &mockCommandExecutor{}
	ts.report = model.NewInstanceReport("inst", "/sub/inst")
	ts.target = Target{SubmissionRoot: "/sub", InstanceDir: "/sub/inst", Instance: "inst"}
}

func (ts *CheckerTestSuite) solutions(paths ...string) []*model.SolutionFile {
	var files []*model.SolutionFile
	for i, p := range paths {
		files = append(files, &model.SolutionFile{Path: p, Index: i})
	}

	return files
}

func (ts *CheckerTestSuite) TestNew_Errors() {
	_, err := New(CommandExecutor(ts.mockCommandExecutor))
	ts.EqualError(err, "checker template is required")

	_, err = New(Template("check {solution}"))
	ts.EqualError(err, "commandExecutor is required")

	_, err = New(Template(`check "{solution}`), CommandExecutor(ts.mockCommandExecutor))
	ts.Error(err)
}

func (ts *CheckerTestSuite) TestCommand_ArgumentVector() {
	c, err := New(Template(`check_cvrp --instance '{instance_dir}/{instance}.vrp' {solution}`), CommandExecutor(ts.mockCommandExecutor))
	ts.Require().NoError(err)

	name, args := c.Command(ts.target, "/sub/inst/my solution; rm -rf x.sol")
	ts.Equal("check_cvrp", name)
	ts.Equal([]string{"--instance", "/sub/inst/inst.vrp", "/sub/inst/my solution; rm -rf x.sol"}, args)
}

func (ts *CheckerTestSuite) TestCommand_Shell() {
	c, err := New(Template("cat {solution} | checker {submission_root} {other}"), Shell(true), CommandExecutor(ts.mockCommandExecutor))
	ts.Require().NoError(err)

	name, args := c.Command(ts.target, "/sub/inst/inst_solution.txt")
	ts.Equal("sh", name)
	ts.Equal([]string{"-c", "cat /sub/inst/inst_solution.txt | checker /sub {other}"}, args)
}

func (ts *CheckerTestSuite) TestCommand_EscapedBraces() {
	c, err := New(Template("awk '{{print $1}}' {solution} | grep -c '{{{instance}}}'"), Shell(true), CommandExecutor(ts.mockCommandExecutor))
	ts.Require().NoError(err)

	_, args := c.Command(ts.target, "/sub/inst/{{x}}.txt")
	ts.Equal([]string{"-c", "awk '{print $1}' /sub/inst/{{x}}.txt | grep -c '{inst}'"}, args)

	c, err = New(Template("check --literal {{solution}} {solution}"), CommandExecutor(ts.mockCommandExecutor))
	ts.Require().NoError(err)

	name, args := c.Command(ts.target, "/sub/inst/a.txt")
	ts.Equal("check", name)
	ts.Equal([]string{"--literal", "{solution}", "/sub/inst/a.txt"}, args)
}

func (ts *CheckerTestSuite) TestRun() {
	ts.mockCommandExecutor.On("Execute", "check", []string{"/sub/inst/a.txt"}).
		Return(&commandexecutor.Output{ExitCode: 0, Stdout: []byte("feasible\n"), Stderr: []byte("  ")}, nil)
	ts.mockCommandExecutor.On("Execute", "check", []string{"/sub/inst/b.txt"}).
		Return(&commandexecutor.Output{ExitCode: 2, Stdout: []byte(""), Stderr: []byte("\ninfeasible\n")}, nil)

	c, err := New(Template("check {solution}"), CommandExecutor(ts.mockCommandExecutor))
	ts.Require().NoError(err)

	c.Run(context.Background(), ts.target, ts.solutions("/sub/inst/a.txt", "/sub/inst/b.txt"), ts.report)

	ts.True(ts.report.OK)
	ts.Require().Len(ts.report.CheckerResults, 2)
	ts.Equal(&model.CheckerResult{SolutionPath: "/sub/inst/a.txt", Command: "check /sub/inst/a.txt", ExitCode: 0, Stdout: "feasible", Stderr: ""}, ts.report.CheckerResults[0])
	ts.Equal(2, ts.report.CheckerResults[1].ExitCode)
	ts.Equal("infeasible", ts.report.CheckerResults[1].Stderr)
	ts.mockCommandExecutor.AssertExpectations(ts.T())
}

func (ts *CheckerTestSuite) TestRun_FailOnNonZero() {
	ts.mockCommandExecutor.On("Execute", "check", []string{"/sub/inst/a.txt"}).
		Return(&commandexecutor.Output{ExitCode: 0}, nil)
	ts.mockCommandExecutor.On("Execute", "check", []string{"/sub/inst/b.txt"}).
		Return(&commandexecutor.Output{ExitCode: 1}, nil)

	c, err := New(Template("check {solution}"), FailOnNonZero(true), CommandExecutor(ts.mockCommandExecutor))
	ts.Require().NoError(err)

	c.Run(context.Background(), ts.target, ts.solutions("/sub/inst/a.txt", "/sub/inst/b.txt"), ts.report)

	ts.False(ts.report.OK)
	ts.Equal([]string{"ERROR: Checker failed for solution b.txt with return code 1."}, ts.report.Messages)
}

func (ts *CheckerTestSuite) TestRun_LaunchFailure() {
	ts.mockCommandExecutor.On("Execute", "check", []string{"/sub/inst/a.txt"}).
		Return(nil, errors.New("failed to start command check: not found"))
	ts.mockCommandExecutor.On("Execute", "check", []string{"/sub/inst/b.txt"}).
		Return(&commandexecutor.Output{ExitCode: 0}, nil)

	c, err := New(Template("check {solution}"), CommandExecutor(ts.mockCommandExecutor))
	ts.Require().NoError(err)

	c.Run(context.Background(), ts.target, ts.solutions("/sub/inst/a.txt", "/sub/inst/b.txt"), ts.report)

	ts.False(ts.report.OK)
	ts.Equal([]string{"ERROR: Checker execution failed for a.txt: failed to start command check: not found"}, ts.report.Messages)
	ts.Len(ts.report.CheckerResults, 1)
}

func (ts *CheckerTestSuite) TestRun_OsExecutor() {
	dir := ts.T().TempDir()
	sol := filepath.Join(dir, "inst solution.txt")
	ts.Require().NoError(os.WriteFile(sol, []byte("x1 = 1\n"), 0600))

	c, err := New(Template("cat {solution}"), CommandExecutor(commandexecutor.OsCommandExecutor{}))
	ts.Require().NoError(err)
	c.Run(context.Background(), ts.target, ts.solutions(sol), ts.report)

	ts.True(ts.report.OK)
	ts.Require().Len(ts.report.CheckerResults, 1)
	ts.Equal("x1 = 1", ts.report.CheckerResults[0].Stdout)
}

func (ts *CheckerTestSuite) TestRun_CheckerKilledBySignal() {
	dir := ts.T().TempDir()
	script := filepath.Join(dir, "check.sh")
	ts.Require().NoError(os.WriteFile(script, []byte("#!/bin/sh\necho checking \"$1\"\nkill -SEGV $$\n"), 0700)) // #nosec G306 test script must be executable

	c, err := New(Template(script+" {solution}"), CommandExecutor(commandexecutor.OsCommandExecutor{}))
	ts.Require().NoError(err)
	c.Run(context.Background(), ts.target, ts.solutions("/sub/inst/a.txt"), ts.report)

	ts.True(ts.report.OK, ts.report.Messages)
	ts.Require().Len(ts.report.CheckerResults, 1)
	ts.Equal(139, ts.report.CheckerResults[0].ExitCode)
	ts.Equal("checking /sub/inst/a.txt", ts.report.CheckerResults[0].Stdout)

	report := model.NewInstanceReport("inst", "/sub/inst")
	c, err = New(Template(script+" {solution}"), FailOnNonZero(true), CommandExecutor(commandexecutor.OsCommandExecutor{}))
	ts.Require().NoError(err)
	c.Run(context.Background(), ts.target, ts.solutions("/sub/inst/a.txt"), report)

	ts.False(report.OK)
	ts.Equal([]string{"ERROR: Checker failed for solution a.txt with return code 139."}, report.Messages)
}

func (ts *CheckerTestSuite) TestRun_Timeout() {
	c, err := New(Template("sleep 5"), Timeout(50*time.Millisecond), CommandExecutor(commandexecutor.OsCommandExecutor{}))
	ts.Require().NoError(err)

	c.Run(context.Background(), ts.target, ts.solutions("/sub/inst/a.txt"), ts.report)

	ts.False(ts.report.OK)
	ts.Empty(ts.report.CheckerResults)
	ts.Contains(ts.report.Messages[0], "ERROR: Checker execution failed for a.txt:")
}
