package grobid

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeProber fails its first failures calls and succeeds afterwards.
// A negative failures value never succeeds.
type fakeProber struct {
	failures int
	calls    int
}

func (p *fakeProber) IsAlive(ctx context.Context) error {
	p.calls++
	if p.failures < 0 || p.calls <= p.failures {
		return ErrNetwork
	}
	return nil
}

type fakeProcess struct {
	pid     int
	done    chan struct{}
	exitErr error
	stopped bool
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{pid: 4242, done: make(chan struct{})}
}

func (p *fakeProcess) PID() int              { return p.pid }
func (p *fakeProcess) Done() <-chan struct{} { return p.done }
func (p *fakeProcess) Err() error            { return p.exitErr }
func (p *fakeProcess) Stop() error {
	p.stopped = true
	close(p.done)
	return nil
}

type fakeLauncher struct {
	t        *testing.T
	forbid   bool
	block    bool
	process  *fakeProcess
	launches int
}

func (l *fakeLauncher) Launch(ctx context.Context) (Process, error) {
	l.launches++
	if l.forbid {
		l.t.Fatal("Launch() must not be called")
	}
	if l.block {
		<-ctx.Done()
		return nil, ErrStartTimeout
	}
	if l.process == nil {
		l.process = newFakeProcess()
	}
	return l.process, nil
}

func fastPolling(attempts int) SupervisorOption {
	return WithReadyPolling(attempts, 0)
}

func TestSupervisor_AlreadyHealthy(t *testing.T) {
	prober := &fakeProber{}
	launcher := &fakeLauncher{t: t, forbid: true}
	s := NewSupervisor(prober, launcher)

	if err := s.EnsureAvailable(context.Background()); err != nil {
		t.Fatalf("EnsureAvailable() error = %v", err)
	}
	if err := s.EnsureAvailable(context.Background()); err != nil {
		t.Fatalf("second EnsureAvailable() error = %v", err)
	}

	if prober.calls != 2 {
		t.Errorf("probe calls = %d, want one per call", prober.calls)
	}
	if s.Launched() {
		t.Error("Launched() = true, want false")
	}
}

func TestSupervisor_LaunchesAndPolls(t *testing.T) {
	prober := &fakeProber{failures: 4} // initial probe + 3 polls fail
	launcher := &fakeLauncher{t: t}
	s := NewSupervisor(prober, launcher, fastPolling(20))

	if err := s.EnsureAvailable(context.Background()); err != nil {
		t.Fatalf("EnsureAvailable() error = %v", err)
	}
	if launcher.launches != 1 {
		t.Errorf("launches = %d, want 1", launcher.launches)
	}
	if prober.calls != 5 {
		t.Errorf("probe calls = %d, want 5", prober.calls)
	}
	if !s.Launched() {
		t.Error("Launched() = false, want true")
	}
}

func TestSupervisor_StartTimeout(t *testing.T) {
	prober := &fakeProber{failures: -1}
	launcher := &fakeLauncher{t: t, block: true}
	s := NewSupervisor(prober, launcher, WithStartTimeout(10*time.Millisecond), fastPolling(20))

	err := s.EnsureAvailable(context.Background())
	if !errors.Is(err, ErrStartTimeout) {
		t.Fatalf("EnsureAvailable() error = %v, want ErrStartTimeout", err)
	}
	if prober.calls != 1 {
		t.Errorf("probe calls = %d, want no polling after a failed start", prober.calls)
	}
}

func TestSupervisor_BudgetExhausted(t *testing.T) {
	prober := &fakeProber{failures: -1}
	launcher := &fakeLauncher{t: t}
	s := NewSupervisor(prober, launcher, fastPolling(3))

	err := s.EnsureAvailable(context.Background())
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("EnsureAvailable() error = %v, want ErrNotReady", err)
	}
	if !IsUnavailable(err) {
		t.Error("IsUnavailable() should be true")
	}
	if prober.calls != 4 {
		t.Errorf("probe calls = %d, want 1 + 3 polls", prober.calls)
	}

	// A second call reuses the existing handle
	_ = s.EnsureAvailable(context.Background())
	if launcher.launches != 1 {
		t.Errorf("launches = %d, want at most one per supervisor", launcher.launches)
	}
}

func TestSupervisor_ProcessExited(t *testing.T) {
	prober := &fakeProber{failures: -1}
	proc := newFakeProcess()
	close(proc.done)
	launcher := &fakeLauncher{t: t, process: proc}
	s := NewSupervisor(prober, launcher, fastPolling(20))

	err := s.EnsureAvailable(context.Background())
	if !errors.Is(err, ErrExited) {
		t.Fatalf("EnsureAvailable() error = %v, want ErrExited", err)
	}
	if prober.calls != 2 {
		t.Errorf("probe calls = %d, want polling to stop once the process is gone", prober.calls)
	}
}

func TestSupervisor_ProcessExitErrorReported(t *testing.T) {
	prober := &fakeProber{failures: -1}
	proc := newFakeProcess()
	proc.exitErr = errors.New("exit status 1")
	close(proc.done)
	s := NewSupervisor(prober, &fakeLauncher{t: t, process: proc}, fastPolling(20))

	err := s.EnsureAvailable(context.Background())
	if !errors.Is(err, ErrExited) {
		t.Fatalf("EnsureAvailable() error = %v, want ErrExited", err)
	}
	if !strings.Contains(err.Error(), "exit status 1") {
		t.Errorf("error = %q, want it to carry the exit status", err)
	}
}

func TestSupervisor_NoLauncher(t *testing.T) {
	s := NewSupervisor(&fakeProber{failures: -1}, nil)

	if err := s.EnsureAvailable(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Errorf("EnsureAvailable() error = %v, want ErrNotReady", err)
	}
}

func TestSupervisor_ContextCanceled(t *testing.T) {
	prober := &fakeProber{failures: -1}
	s := NewSupervisor(prober, &fakeLauncher{t: t}, WithReadyPolling(20, time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.EnsureAvailable(ctx)
	if err == nil || errors.Is(err, ErrNotReady) {
		t.Fatalf("EnsureAvailable() error = %v, want context error", err)
	}
}

func TestSupervisor_Shutdown(t *testing.T) {
	t.Run("stops launched process", func(t *testing.T) {
		launcher := &fakeLauncher{t: t}
		s := NewSupervisor(&fakeProber{failures: 1}, launcher, fastPolling(5))
		if err := s.EnsureAvailable(context.Background()); err != nil {
			t.Fatal(err)
		}

		st := s.Status(context.Background())
		if !st.Launched || st.PID != 4242 || !st.Healthy {
			t.Errorf("Status() = %+v", st)
		}

		if err := s.Shutdown(); err != nil {
			t.Fatalf("Shutdown() error = %v", err)
		}
		if !launcher.process.stopped {
			t.Error("launched process was not stopped")
		}
	})

	t.Run("leaves external service alone", func(t *testing.T) {
		s := NewSupervisor(&fakeProber{}, &fakeLauncher{t: t, forbid: true})
		if err := s.EnsureAvailable(context.Background()); err != nil {
			t.Fatal(err)
		}
		if err := s.Shutdown(); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	})
}
