package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/taskly/internal/auth"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/services"
	"github.com/desertthunder/taskly/internal/shared"
	"github.com/desertthunder/taskly/internal/tasks"
	tu "github.com/desertthunder/taskly/internal/testing"
	"github.com/urfave/cli/v3"
)

type fakeSession struct {
	user       *models.User
	restoreErr error
	signInErr  error
	signOutErr error
	signedOut  bool
	email      string
	subs       []func(*models.User)
}

func (f *fakeSession) SignIn(_ context.Context, email, _ string) (*models.User, error) {
	f.email = email
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.user, nil
}

func (f *fakeSession) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	return f.SignIn(ctx, email, password)
}

func (f *fakeSession) SignInWithGoogle(context.Context) (*models.User, error) {
	return f.user, f.signInErr
}

func (f *fakeSession) SignOut(context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.signedOut = true
	f.user = nil
	for _, fn := range f.subs {
		fn(nil)
	}
	return nil
}

func (f *fakeSession) Current() (*models.User, bool) { return f.user, f.user != nil }

func (f *fakeSession) Subscribe(fn func(*models.User)) { f.subs = append(f.subs, fn) }

func (f *fakeSession) Restore(context.Context) (*models.User, error) {
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	return f.user, nil
}

func (f *fakeSession) Token(context.Context) (string, error) { return "id-token", nil }

func testUser() *models.User {
	return &models.User{ID: "u1", Email: "ada@example.com", DisplayName: "Ada"}
}

// run executes args against a fresh command tree backed by runner.
func run(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:     "taskly",
		Flags:    rootFlags(),
		Before:   runner.Load,
		Commands: runner.register(),
		Writer:   io.Discard,
	}
	argv := append([]string{"taskly", "--config", filepath.Join(t.TempDir(), "missing.toml")}, args...)
	return app.Run(context.Background(), argv)
}

func newTaskRunner(svc services.TaskService, session *fakeSession) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Logger:  shared.NewLogger(io.Discard),
		Output:  output,
		Session: session,
		Tasks:   svc,
	})
	return runner, output
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			session := &fakeSession{}
			svc := tu.NewFakeTaskService()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Session:    session,
				Tasks:      svc,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.session != session {
				t.Error("expected session to be set")
			}
			if runner.tasks != svc {
				t.Error("expected task service to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "auth", "tasks", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("Load", func(t *testing.T) {
		t.Run("reads config file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			config := shared.DefaultConfig()
			config.API.BaseURL = "https://tasks.example.com"
			if err := shared.SaveConfig(path, config); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})
			app := &cli.Command{Flags: rootFlags(), Before: runner.Load, Action: func(context.Context, *cli.Command) error { return nil }}
			if err := app.Run(context.Background(), []string{"taskly", "--config", path}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if runner.config.API.BaseURL != "https://tasks.example.com" {
				t.Errorf("expected base url from file, got %s", runner.config.API.BaseURL)
			}
			if runner.configPath != path {
				t.Errorf("expected configPath %s, got %s", path, runner.configPath)
			}
		})

		t.Run("missing file keeps defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})
			before := runner.config

			app := &cli.Command{Flags: rootFlags(), Before: runner.Load, Action: func(context.Context, *cli.Command) error { return nil }}
			path := filepath.Join(t.TempDir(), "nope.toml")
			if err := app.Run(context.Background(), []string{"taskly", "--config", path}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.config != before {
				t.Error("expected config to be unchanged")
			}
		})

		t.Run("invalid file fails", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte("[api\nbase_url ="), 0644); err != nil {
				t.Fatal(err)
			}

			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})
			app := &cli.Command{Flags: rootFlags(), Before: runner.Load, Action: func(context.Context, *cli.Command) error { return nil }}
			if err := app.Run(context.Background(), []string{"taskly", "--config", path}); err == nil {
				t.Error("expected parse error")
			}
		})
	})
}

func TestTasksCommands(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		t.Run("adds and reports success", func(t *testing.T) {
			svc := tu.NewFakeTaskService()
			runner, output := newTaskRunner(svc, &fakeSession{user: testUser()})

			if err := run(t, runner, "tasks", "add", "Buy", "milk"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			got := svc.Tasks()
			if len(got) != 1 || got[0].Text != "Buy milk" {
				t.Errorf("expected one task 'Buy milk', got %+v", got)
			}
			if !strings.Contains(output.String(), "✓ "+tasks.MsgAdded) {
				t.Errorf("expected success message, got %q", output.String())
			}
		})

		t.Run("rejects duplicates case-insensitively", func(t *testing.T) {
			svc := tu.NewFakeTaskService(models.Task{ID: "1", Text: "task"})
			runner, output := newTaskRunner(svc, &fakeSession{user: testUser()})

			err := run(t, runner, "tasks", "add", "TASK")
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if svc.Calls(tu.OpCreate) != 0 {
				t.Error("expected no remote create")
			}
			if !strings.Contains(output.String(), "✗ "+tasks.MsgDuplicate) {
				t.Errorf("expected duplicate message, got %q", output.String())
			}
		})

		t.Run("requires text", func(t *testing.T) {
			runner, _ := newTaskRunner(tu.NewFakeTaskService(), &fakeSession{user: testUser()})
			if err := run(t, runner, "tasks", "add"); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("requires sign in", func(t *testing.T) {
			svc := tu.NewFakeTaskService()
			runner, _ := newTaskRunner(svc, &fakeSession{restoreErr: shared.ErrNotAuthenticated})

			err := run(t, runner, "tasks", "add", "Buy milk")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Fatalf("expected ErrNotAuthenticated, got %v", err)
			}
			if svc.Calls(tu.OpFetchAll) != 0 {
				t.Error("expected no remote calls when signed out")
			}
		})
	})

	t.Run("list", func(t *testing.T) {
		t.Run("prints every task", func(t *testing.T) {
			svc := tu.NewFakeTaskService(
				models.Task{ID: "1", Text: "Buy milk"},
				models.Task{ID: "2", Text: "Walk dog", Completed: true},
			)
			runner, output := newTaskRunner(svc, &fakeSession{user: testUser()})

			if err := run(t, runner, "tasks", "list"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			for _, want := range []string{"Welcome, Ada!", "1. [ ] Buy milk", "2. [x] Walk dog", "2 tasks"} {
				if !strings.Contains(result, want) {
					t.Errorf("expected output to contain %q, got %q", want, result)
				}
			}
		})

		t.Run("prints one page", func(t *testing.T) {
			var seed []models.Task
			for _, id := range []string{"1", "2", "3", "4", "5"} {
				seed = append(seed, models.Task{ID: models.TaskID(id), Text: "task " + id})
			}
			runner, output := newTaskRunner(tu.NewFakeTaskService(seed...), &fakeSession{user: testUser()})

			if err := run(t, runner, "tasks", "list", "--page", "2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, "5. [ ] task 5") {
				t.Errorf("expected fifth task on page 2, got %q", result)
			}
			if strings.Contains(result, "task 1") {
				t.Error("expected first page tasks to be omitted")
			}
			if !strings.Contains(result, "Page 2 of 2") {
				t.Errorf("expected page indicator, got %q", result)
			}
		})

		t.Run("clamps page past the end", func(t *testing.T) {
			runner, output := newTaskRunner(tu.NewFakeTaskService(models.Task{ID: "1", Text: "only"}), &fakeSession{user: testUser()})

			if err := run(t, runner, "tasks", "list", "--page", "9"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "Page 1 of 1") {
				t.Errorf("expected page 1 of 1, got %q", output.String())
			}
		})

		t.Run("reports fetch failure", func(t *testing.T) {
			svc := tu.NewFakeTaskService()
			svc.FetchAllErr = errors.New("connection refused")
			runner, output := newTaskRunner(svc, &fakeSession{user: testUser()})

			if err := run(t, runner, "tasks", "list"); err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(output.String(), "✗ "+tasks.MsgRefreshFailed) {
				t.Errorf("expected fetch failure message, got %q", output.String())
			}
		})
	})

	t.Run("edit", func(t *testing.T) {
		svc := tu.NewFakeTaskService(models.Task{ID: "1", Text: "Buy milk"})
		runner, output := newTaskRunner(svc, &fakeSession{user: testUser()})

		if err := run(t, runner, "tasks", "edit", "1", "Buy", "oat", "milk"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := svc.Tasks()[0].Text; got != "Buy oat milk" {
			t.Errorf("expected updated text, got %q", got)
		}
		if !strings.Contains(output.String(), "✓ "+tasks.MsgUpdated) {
			t.Errorf("expected update message, got %q", output.String())
		}
	})

	t.Run("rm", func(t *testing.T) {
		t.Run("deletes task", func(t *testing.T) {
			svc := tu.NewFakeTaskService(models.Task{ID: "1", Text: "Buy milk"})
			runner, output := newTaskRunner(svc, &fakeSession{user: testUser()})

			if err := run(t, runner, "tasks", "rm", "1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(svc.Tasks()) != 0 {
				t.Error("expected task to be deleted")
			}
			if !strings.Contains(output.String(), "✓ "+tasks.MsgRemoved) {
				t.Errorf("expected delete message, got %q", output.String())
			}
		})

		t.Run("unknown id", func(t *testing.T) {
			svc := tu.NewFakeTaskService()
			runner, output := newTaskRunner(svc, &fakeSession{user: testUser()})

			if err := run(t, runner, "tasks", "rm", "42"); !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if svc.Calls(tu.OpDelete) != 0 {
				t.Error("expected no remote delete")
			}
			if !strings.Contains(output.String(), "✗ "+tasks.MsgNotFound) {
				t.Errorf("expected not found message, got %q", output.String())
			}
		})
	})

	t.Run("export", func(t *testing.T) {
		t.Run("writes to stdout", func(t *testing.T) {
			svc := tu.NewFakeTaskService(models.Task{ID: "1", Text: "Buy milk"})
			runner, output := newTaskRunner(svc, &fakeSession{user: testUser()})

			if err := run(t, runner, "tasks", "export", "--format", "csv", "--output", "-"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "ID,Task,Completed") {
				t.Errorf("expected CSV header, got %q", output.String())
			}
		})

		t.Run("renders markdown", func(t *testing.T) {
			svc := tu.NewFakeTaskService(models.Task{ID: "1", Text: "Buy milk"})
			runner, output := newTaskRunner(svc, &fakeSession{user: testUser()})

			if err := run(t, runner, "tasks", "export", "--format", "markdown", "--output", "-", "--render", "--style", "notty"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "Buy milk") {
				t.Errorf("expected rendered task, got %q", output.String())
			}
		})

		t.Run("writes to file", func(t *testing.T) {
			svc := tu.NewFakeTaskService(models.Task{ID: "1", Text: "Buy milk"})
			runner, output := newTaskRunner(svc, &fakeSession{user: testUser()})
			path := filepath.Join(t.TempDir(), "tasks.md")

			if err := run(t, runner, "tasks", "export", "--format", "md", "--output", path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			tu.AssertFileExists(t, path)
			if content := tu.MustReadFile(t, path); !strings.Contains(content, "Buy milk") {
				t.Errorf("expected task in export, got %q", content)
			}
			if !strings.Contains(output.String(), "Exported 1 tasks") {
				t.Errorf("expected export summary, got %q", output.String())
			}
		})

		t.Run("unknown format", func(t *testing.T) {
			svc := tu.NewFakeTaskService()
			runner, _ := newTaskRunner(svc, &fakeSession{user: testUser()})

			if err := run(t, runner, "tasks", "export", "--format", "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if svc.Calls(tu.OpFetchAll) != 0 {
				t.Error("expected format to be checked before fetching")
			}
		})
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("login", func(t *testing.T) {
		t.Run("signs in with flags", func(t *testing.T) {
			session := &fakeSession{user: testUser()}
			runner, output := newTaskRunner(nil, session)

			if err := run(t, runner, "auth", "login", "--email", " ada@example.com ", "--password", "secret"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if session.email != "ada@example.com" {
				t.Errorf("expected trimmed email, got %q", session.email)
			}
			result := output.String()
			if !strings.Contains(result, "✓ "+auth.MsgSignedIn) || !strings.Contains(result, "Welcome, Ada!") {
				t.Errorf("unexpected output %q", result)
			}
		})

		t.Run("reports provider failure", func(t *testing.T) {
			session := &fakeSession{signInErr: &auth.ProviderError{Code: "INVALID_PASSWORD"}}
			runner, output := newTaskRunner(nil, session)

			err := run(t, runner, "auth", "login", "--email", "ada@example.com", "--password", "wrong")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Fatalf("expected ErrAuthFailed, got %v", err)
			}
			if !strings.Contains(output.String(), "✗ Sign-in failed") {
				t.Errorf("expected failure message, got %q", output.String())
			}
		})

		t.Run("rejects invalid email", func(t *testing.T) {
			runner, _ := newTaskRunner(nil, &fakeSession{user: testUser()})
			err := run(t, runner, "auth", "login", "--email", "not-an-email", "--password", "secret")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner, output := newTaskRunner(nil, &fakeSession{user: testUser()})
		if err := run(t, runner, "auth", "register", "--email", "ada@example.com", "--password", "secret"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ "+auth.MsgRegistered) {
			t.Errorf("expected registration message, got %q", output.String())
		}
	})

	t.Run("logout", func(t *testing.T) {
		session := &fakeSession{user: testUser()}
		runner, output := newTaskRunner(nil, session)

		if err := run(t, runner, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !session.signedOut {
			t.Error("expected session to be signed out")
		}
		if !strings.Contains(output.String(), "✓ "+auth.MsgSignedOut) {
			t.Errorf("expected sign-out message, got %q", output.String())
		}
	})

	t.Run("status", func(t *testing.T) {
		t.Run("signed in", func(t *testing.T) {
			runner, output := newTaskRunner(nil, &fakeSession{user: testUser()})
			if err := run(t, runner, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "User: Ada") {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("signed out", func(t *testing.T) {
			runner, output := newTaskRunner(nil, &fakeSession{restoreErr: shared.ErrNotAuthenticated})
			if err := run(t, runner, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "Not signed in") {
				t.Errorf("unexpected output %q", output.String())
			}
		})
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})

		app := &cli.Command{Flags: rootFlags(), Before: runner.Load, Commands: runner.register(), Writer: io.Discard}
		if err := app.Run(context.Background(), []string{"taskly", "--config", path, "setup", "config"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("expected created config to load, got %v", err)
		}
	})

	t.Run("database runs migrations", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "taskly.db")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: output})

		if err := run(t, runner, "setup", "database"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)
		if !strings.Contains(output.String(), "schema version 0") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestEndOnSignOut(t *testing.T) {
	t.Run("closes store and quits on sign-out", func(t *testing.T) {
		session := &fakeSession{user: testUser()}
		store := tasks.NewStore(tu.NewFakeTaskService(), nil, shared.NewLogger(io.Discard))
		quits := 0

		signedOut := endOnSignOut(session, store, func() { quits++ })
		if err := session.SignOut(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !signedOut.Load() {
			t.Error("expected sign-out to be recorded")
		}
		if quits != 1 {
			t.Errorf("expected one quit, got %d", quits)
		}
		if _, err := store.Add(context.Background(), "Buy milk"); !errors.Is(err, shared.ErrStoreClosed) {
			t.Errorf("expected closed store, got %v", err)
		}
	})

	t.Run("quits once for repeated sign-outs", func(t *testing.T) {
		session := &fakeSession{user: testUser()}
		store := tasks.NewStore(tu.NewFakeTaskService(), nil, shared.NewLogger(io.Discard))
		quits := 0

		endOnSignOut(session, store, func() { quits++ })
		session.SignOut(context.Background())
		session.SignOut(context.Background())

		if quits != 1 {
			t.Errorf("expected one quit, got %d", quits)
		}
	})

	t.Run("ignores sign-in", func(t *testing.T) {
		session := &fakeSession{user: testUser()}
		store := tasks.NewStore(tu.NewFakeTaskService(), nil, shared.NewLogger(io.Discard))
		quits := 0

		signedOut := endOnSignOut(session, store, func() { quits++ })
		for _, fn := range session.subs {
			fn(testUser())
		}

		if signedOut.Load() || quits != 0 {
			t.Errorf("expected no sign-out, got flag=%v quits=%d", signedOut.Load(), quits)
		}
		if _, err := store.Add(context.Background(), "Buy milk"); err != nil {
			t.Errorf("expected open store, got %v", err)
		}
	})
}
