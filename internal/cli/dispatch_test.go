package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gtasksync/internal/cli"
	"gtasksync/internal/commands"
	"gtasksync/internal/config"
	"gtasksync/internal/exitcode"
	"gtasksync/internal/service"
	"gtasksync/internal/testutil"
)

// testFactory creates a connector factory that hands out the given FakeRemote.
func testFactory(remote *testutil.FakeRemote) cli.ConnectorFactory {
	return func(cfg *config.Config) service.Connector {
		return remote.Connector()
	}
}

type session struct {
	t          *testing.T
	dir        string
	dispatcher *cli.Dispatcher
}

func newSession(t *testing.T, remote *testutil.FakeRemote) *session {
	return &session{
		t:          t,
		dir:        t.TempDir(),
		dispatcher: cli.NewDispatcher(commands.DefaultRegistry, testFactory(remote)),
	}
}

// run dispatches args with --config pointing at the session directory.
func (s *session) run(args ...string) (stdout, stderr string, code int) {
	s.t.Helper()
	var outBuf, errBuf bytes.Buffer
	full := append([]string{args[0], "--config", s.dir}, args[1:]...)
	code = s.dispatcher.Run(context.Background(), full, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeRemote(0)))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeRemote(0)))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	s := newSession(t, testutil.NewFakeRemote(0))

	stdout, stderr, code := s.run("help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "gtasksync sync", "gtasksync rmlist", "Common flags:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected help output to contain %q", want)
		}
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	s := newSession(t, testutil.NewFakeRemote(0))

	stdout, stderr, code := s.run("version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "gtasksync 0.1.0\n" {
		t.Errorf("expected 'gtasksync 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	s := newSession(t, testutil.NewFakeRemote(0))

	_, stderr, code := s.run("help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	s := newSession(t, testutil.NewFakeRemote(0))

	_, stderr, code := s.run("add", "--list")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -list\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_EditThenSync(t *testing.T) {
	remote := testutil.NewFakeRemote(1_000)
	s := newSession(t, remote)

	if _, stderr, code := s.run("createlist", "Errands"); code != exitcode.Success {
		t.Fatalf("createlist: code %d, stderr %q", code, stderr)
	}
	if _, stderr, code := s.run("add", "--list", "errands", "--due", "2024-01-05", "post", "letter"); code != exitcode.Success {
		t.Fatalf("add: code %d, stderr %q", code, stderr)
	}

	stdout, stderr, code := s.run("sync", "--quiet")
	if code != exitcode.Success {
		t.Fatalf("sync: code %d, stderr %q", code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}

	lists := remote.Lists()
	if len(lists) != 1 || lists[0].Title != "Errands" {
		t.Fatalf("unexpected remote lists: %+v", lists)
	}
	tasks := remote.Tasks(lists[0].RemoteID)
	if len(tasks) != 1 || tasks[0].Title != "post letter" || tasks[0].Due != "2024-01-05" {
		t.Fatalf("unexpected remote tasks: %+v", tasks)
	}

	stdout, _, code = s.run("sync")
	if code != exitcode.Success {
		t.Fatalf("second sync: code %d", code)
	}
	expected := "local:  0 inserted, 0 updated, 0 deleted\nremote: 0 inserted, 0 updated, 0 deleted\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_SyncDownloadsThenLists(t *testing.T) {
	remote := testutil.NewFakeRemote(1_000)
	remote.AddList("L1", "My Tasks", 100)
	remote.AddList("L2", "Shopping", 100)
	remote.PutTask("L1", service.Task{Link: service.Link{RemoteID: "T1", Updated: 100}, Title: "Buy milk"})
	remote.PutTask("L2", service.Task{Link: service.Link{RemoteID: "T2", Updated: 100}, Title: "Bread"})
	s := newSession(t, remote)

	stdout, stderr, code := s.run("sync")
	if code != exitcode.Success {
		t.Fatalf("sync: code %d, stderr %q", code, stderr)
	}
	expected := "local:  4 inserted, 0 updated, 0 deleted\nremote: 0 inserted, 0 updated, 0 deleted\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}

	stdout, _, _ = s.run("lists")
	if expected := "My Tasks [default]\nShopping\n"; stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}

	stdout, _, _ = s.run("list")
	expected = "   1  Buy milk\n------------\nShopping\n------------\n       1  Bread\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_SyncAuthFailure(t *testing.T) {
	remote := testutil.NewFakeRemote(0)
	remote.ConnectErr = service.Wrap(service.KindAuth, "connect", errors.New("not logged in"))
	s := newSession(t, remote)

	_, stderr, code := s.run("sync")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "error: sync failed: connect: auth error: not logged in") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_SyncTransportFailure(t *testing.T) {
	remote := testutil.NewFakeRemote(0)
	remote.ListListsErr = service.Wrap(service.KindTransport, "list task lists", errors.New("connection reset"))
	s := newSession(t, remote)

	_, _, code := s.run("sync", "--quiet")

	if code != exitcode.SyncError {
		t.Errorf("expected exit code %d, got %d", exitcode.SyncError, code)
	}
}

func TestDispatcher_SyncFullSurvivesAbortedRun(t *testing.T) {
	remote := testutil.NewFakeRemote(1_000)
	remote.AddList("L1", "My Tasks", 100)
	remote.PutTask("L1", service.Task{Link: service.Link{RemoteID: "T1", Updated: 100}, Title: "Buy milk"})
	s := newSession(t, remote)

	if _, stderr, code := s.run("sync", "--quiet"); code != exitcode.Success {
		t.Fatalf("first sync: code %d, stderr %q", code, stderr)
	}

	remote.ListListsErr = service.Wrap(service.KindTransport, "list task lists", errors.New("connection reset"))
	if _, _, code := s.run("sync", "--full", "--quiet"); code != exitcode.SyncError {
		t.Fatalf("expected exit code %d, got %d", exitcode.SyncError, code)
	}
	remote.ListListsErr = nil

	for _, wantFull := range []bool{true, false} {
		if _, stderr, code := s.run("sync", "--quiet"); code != exitcode.Success {
			t.Fatalf("sync: code %d, stderr %q", code, stderr)
		}
		last := remote.Since[len(remote.Since)-1]
		if last.IsZero() != wantFull {
			t.Errorf("expected full download %v, got since %v", wantFull, last)
		}
	}
	if len(remote.Since) != 3 {
		t.Errorf("expected 3 task downloads, got %d", len(remote.Since))
	}
}
