package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/fibmod/internal/config"
	apperrors "github.com/agbru/fibmod/internal/errors"
	"github.com/agbru/fibmod/internal/service/mocks"
	"github.com/agbru/fibmod/internal/strategy"
	"github.com/agbru/fibmod/internal/testutil"
	"github.com/agbru/fibmod/pkg/models"
)

// newMockApp builds an Application around a mocked service.
func newMockApp(t *testing.T, cfg config.AppConfig) (*Application, *mocks.MockService, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Minute
	}
	errBuf := &bytes.Buffer{}
	return &Application{
		Config:    cfg,
		Factory:   strategy.NewDefaultFactory(),
		Service:   svc,
		ErrWriter: errBuf,
	}, svc, errBuf
}

// TestNew tests the New function for creating Application instances.
func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("Valid args create application", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		args := []string{"fibmod", "-n", "100", "-m", "7", "-env-file", ""}

		app, err := New(args, strings.NewReader(""), &errBuf)

		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if app == nil {
			t.Fatal("New() returned nil application")
		}
		if app.Config.N != "100" || app.Config.M != "7" {
			t.Errorf("Expected n=100 m=7, got n=%s m=%s", app.Config.N, app.Config.M)
		}
		if app.Factory == nil || app.Service == nil || app.Gatherer == nil {
			t.Error("collaborators should not be nil")
		}
	})

	t.Run("Invalid args return error", func(t *testing.T) {
		t.Parallel()
		app, err := New([]string{"fibmod", "-invalid-flag"}, nil, &bytes.Buffer{})
		if err == nil {
			t.Error("New() should return error for invalid args")
		}
		if app != nil {
			t.Error("New() should return nil application on error")
		}
	})

	t.Run("Help flag returns error", func(t *testing.T) {
		t.Parallel()
		_, err := New([]string{"fibmod", "-h"}, nil, &bytes.Buffer{})
		if !IsHelpError(err) {
			t.Errorf("expected help error, got %v", err)
		}
	})
}

func TestApplicationRun(t *testing.T) {
	t.Parallel()

	t.Run("Single strategy", func(t *testing.T) {
		t.Parallel()
		app, svc, _ := newMockApp(t, config.AppConfig{N: "7", M: "10", Algo: "pisano", Details: true})
		svc.EXPECT().Calculate(gomock.Any(), "pisano", big.NewInt(7), uint64(10)).
			Return(strategy.Result{Residue: 3, Period: 60, Reduced: 7}, nil)

		var outBuf bytes.Buffer
		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		for _, want := range []string{"Execution Configuration", "F(7) mod 10 = 3", "Pisano period π(m)    : 60"} {
			if !strings.Contains(output, want) {
				t.Errorf("Output should contain %q. Output:\n%s", want, output)
			}
		}
	})

	t.Run("Comparison with success", func(t *testing.T) {
		t.Parallel()
		app, svc, _ := newMockApp(t, config.AppConfig{N: "20", M: "7", Algo: "all"})
		svc.EXPECT().Calculate(gomock.Any(), gomock.Any(), gomock.Any(), uint64(7)).
			Return(strategy.Result{Residue: 6}, nil).Times(2)

		var outBuf bytes.Buffer
		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		if !strings.Contains(output, "Comparison Summary") || !strings.Contains(output, "Global Status: Success") {
			t.Errorf("Unexpected comparison output:\n%s", output)
		}
	})

	t.Run("Comparison mismatch", func(t *testing.T) {
		t.Parallel()
		app, svc, _ := newMockApp(t, config.AppConfig{N: "20", M: "7", Algo: "all"})
		svc.EXPECT().Calculate(gomock.Any(), strategy.NameDoubling, gomock.Any(), gomock.Any()).Return(strategy.Result{Residue: 6}, nil)
		svc.EXPECT().Calculate(gomock.Any(), strategy.NamePisano, gomock.Any(), gomock.Any()).Return(strategy.Result{Residue: 5}, nil)

		if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorMismatch {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorMismatch, code)
		}
	})

	t.Run("Quiet comparison mismatch", func(t *testing.T) {
		t.Parallel()
		app, svc, errBuf := newMockApp(t, config.AppConfig{N: "20", M: "7", Algo: "all", Quiet: true})
		svc.EXPECT().Calculate(gomock.Any(), strategy.NameDoubling, gomock.Any(), gomock.Any()).Return(strategy.Result{Residue: 6}, nil)
		svc.EXPECT().Calculate(gomock.Any(), strategy.NamePisano, gomock.Any(), gomock.Any()).Return(strategy.Result{Residue: 5}, nil)

		var outBuf bytes.Buffer
		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitErrorMismatch {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorMismatch, code)
		}
		if outBuf.Len() != 0 {
			t.Errorf("no residue should be printed on mismatch, got %q", outBuf.String())
		}
		if !strings.Contains(errBuf.String(), "Mismatch") {
			t.Errorf("expected a mismatch message, got %q", errBuf.String())
		}
	})

	t.Run("Timeout failure", func(t *testing.T) {
		t.Parallel()
		app, svc, errBuf := newMockApp(t, config.AppConfig{N: "100000000", M: "7", Algo: "pisano", Timeout: time.Millisecond})
		svc.EXPECT().Calculate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ string, _ *big.Int, _ uint64) (strategy.Result, error) {
				<-ctx.Done()
				return strategy.Result{}, ctx.Err()
			})

		exitCode := app.Run(context.Background(), &bytes.Buffer{})

		if exitCode != apperrors.ExitErrorTimeout {
			t.Errorf("Expected exit code %d (timeout), got %d", apperrors.ExitErrorTimeout, exitCode)
		}
		if !strings.Contains(errBuf.String(), "Timeout") {
			t.Errorf("Error output should mention timeout. Output:\n%s", errBuf.String())
		}
	})

	t.Run("Context cancellation", func(t *testing.T) {
		t.Parallel()
		app, svc, _ := newMockApp(t, config.AppConfig{N: "1", M: "7", Algo: "pisano"})
		svc.EXPECT().Calculate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ string, _ *big.Int, _ uint64) (strategy.Result, error) {
				<-ctx.Done()
				return strategy.Result{}, ctx.Err()
			})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if code := app.Run(ctx, &bytes.Buffer{}); code != apperrors.ExitErrorCanceled {
			t.Errorf("Expected exit code %d (canceled), got %d", apperrors.ExitErrorCanceled, code)
		}
	})

	t.Run("JSON output mode", func(t *testing.T) {
		t.Parallel()
		app, svc, _ := newMockApp(t, config.AppConfig{N: "10", M: "2", Algo: "doubling", JSONOutput: true})
		svc.EXPECT().Calculate(gomock.Any(), "doubling", gomock.Any(), gomock.Any()).Return(strategy.Result{Residue: 1}, nil)

		var outBuf bytes.Buffer
		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
		}
		var decoded []models.ComputationResult
		if err := json.Unmarshal(outBuf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON output %q: %v", outBuf.String(), err)
		}
		if len(decoded) != 1 || decoded[0].Residue != 1 || decoded[0].N != "10" || decoded[0].M != 2 {
			t.Errorf("unexpected JSON %+v", decoded)
		}
	})

	t.Run("JSON output keeps failures", func(t *testing.T) {
		t.Parallel()
		app, svc, _ := newMockApp(t, config.AppConfig{N: "10", M: "2", Algo: "pisano", JSONOutput: true})
		svc.EXPECT().Calculate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(strategy.Result{}, errors.New("boom"))

		var outBuf bytes.Buffer
		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitErrorGeneric {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorGeneric, code)
		}
		if !strings.Contains(outBuf.String(), `"error": "boom"`) {
			t.Errorf("expected the error in the JSON output, got %s", outBuf.String())
		}
	})

	t.Run("Quiet mode reads stdin", func(t *testing.T) {
		t.Parallel()
		app, svc, _ := newMockApp(t, config.AppConfig{Algo: "auto", Quiet: true})
		app.In = strings.NewReader("10 2\n")
		svc.EXPECT().Calculate(gomock.Any(), "auto", big.NewInt(10), uint64(2)).Return(strategy.Result{Residue: 1}, nil)

		var outBuf bytes.Buffer
		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
		}
		if outBuf.String() != "1\n" {
			t.Errorf("Quiet output should be the bare residue, got %q", outBuf.String())
		}
	})

	t.Run("Invalid stdin", func(t *testing.T) {
		t.Parallel()
		app, _, errBuf := newMockApp(t, config.AppConfig{Algo: "auto"})
		app.In = strings.NewReader("10 0")

		if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorConfig, code)
		}
		if !strings.Contains(errBuf.String(), "Invalid input") {
			t.Errorf("expected an invalid input message, got %q", errBuf.String())
		}
	})

	t.Run("Version", func(t *testing.T) {
		t.Parallel()
		app, _, _ := newMockApp(t, config.AppConfig{ShowVersion: true})
		var outBuf bytes.Buffer
		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
		}
		if !strings.Contains(outBuf.String(), "fibmod "+Version) {
			t.Errorf("unexpected version output %q", outBuf.String())
		}
	})
}

// TestRunEndToEnd drives the real service through New and Run.
func TestRunEndToEnd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		in   string
		want string
	}{
		{"flags", []string{"-n", "2816213588", "-m", "13", "-q"}, "", "5\n"},
		{"stdin", []string{"-q"}, "99999999999999999 1000000000", "900390626\n"},
		{"stdin pisano", []string{"-q", "-algo", "pisano"}, "2816213588 30524", "10249\n"},
		{"modulus one", []string{"-q", "-algo", "pisano"}, "123456789 1", "0\n"},
		{"comparison", []string{"-q", "-algo", "all", "-n", "314159265358979323846", "-m", "2718"}, "", "1205\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"fibmod", "-env-file", ""}, tt.args...)
			app, err := New(args, strings.NewReader(tt.in), &bytes.Buffer{})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			var outBuf bytes.Buffer
			if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
				t.Fatalf("exit code %d", code)
			}
			if outBuf.String() != tt.want {
				t.Errorf("output = %q, want %q", outBuf.String(), tt.want)
			}
		})
	}
}

func TestRunWithMetrics(t *testing.T) {
	app, err := New([]string{"fibmod", "-env-file", "", "-q", "-metrics", "-n", "7", "-m", "10"}, nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var outBuf bytes.Buffer
	if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	out := outBuf.String()
	if !strings.HasPrefix(out, "3\n") {
		t.Errorf("expected the residue first, got %q", out)
	}
	for _, want := range []string{"--- Metrics ---", "fibmod_calculations_total", "fibmod_period_table_moduli"} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
	if strings.Contains(out, "go_goroutines") {
		t.Error("runtime metrics should be filtered out")
	}
}

func TestRunWithMetricsJSON(t *testing.T) {
	var errBuf bytes.Buffer
	app, err := New([]string{"fibmod", "-env-file", "", "-json", "-metrics", "-n", "7", "-m", "10"}, nil, &errBuf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var outBuf bytes.Buffer
	if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	var results []models.ComputationResult
	if err := json.Unmarshal(outBuf.Bytes(), &results); err != nil {
		t.Fatalf("stdout is not a single JSON document: %v\n%s", err, outBuf.String())
	}
	if len(results) != 1 || results[0].Residue != 3 {
		t.Errorf("unexpected results %+v", results)
	}
	if !strings.Contains(errBuf.String(), "fibmod_calculations_total") {
		t.Errorf("metrics expected on the error writer, got %q", errBuf.String())
	}
}

// TestIsHelpError tests the IsHelpError function.
func TestIsHelpError(t *testing.T) {
	t.Parallel()
	if !IsHelpError(flagErrHelpWrapped()) {
		t.Error("wrapped flag.ErrHelp should be detected")
	}
	if IsHelpError(errors.New("other")) {
		t.Error("unrelated errors are not help errors")
	}
	if IsHelpError(nil) {
		t.Error("nil is not a help error")
	}
}

// TestSetupLifecycle verifies that the lifecycle context honours the timeout.
func TestSetupLifecycle(t *testing.T) {
	t.Parallel()
	ctx, cancel := SetupLifecycle(context.Background(), time.Millisecond)
	defer cancel.Cleanup()

	select {
	case <-ctx.Done():
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", ctx.Err())
		}
	case <-time.After(time.Second):
		t.Fatal("lifecycle context did not expire")
	}
}

func flagErrHelpWrapped() error {
	return apperrors.WrapError(flag.ErrHelp, "parsing")
}
