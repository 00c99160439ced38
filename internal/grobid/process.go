package grobid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// stopGrace is how long Stop waits after an interrupt before killing.
const stopGrace = 5 * time.Second

// Process is a running GROBID instance started by a Launcher.
type Process interface {
	// PID returns the operating system process id.
	PID() int
	// Done is closed once the process has exited.
	Done() <-chan struct{}
	// Err returns the exit error after Done is closed, nil before.
	Err() error
	// Stop terminates the process and waits for it to exit.
	Stop() error
}

// Launcher starts a GROBID instance. Launch returns once the process has
// started, or with an error if ctx ends first.
type Launcher interface {
	Launch(ctx context.Context) (Process, error)
}

// ExecLauncher runs GROBID as a local subprocess, typically
// "java -jar grobid-core.jar server".
type ExecLauncher struct {
	Command string
	Args    []string
	Dir     string
	// Output receives the subprocess stdout and stderr. Nil discards them.
	Output io.Writer
}

// Launch starts the subprocess.
func (l *ExecLauncher) Launch(ctx context.Context) (Process, error) {
	if l.Command == "" {
		return nil, fmt.Errorf("no GROBID command configured")
	}

	// exec.CommandContext would kill the server when ctx ends; the server
	// must outlive the launch deadline.
	cmd := exec.Command(l.Command, l.Args...)
	cmd.Dir = l.Dir
	cmd.Stdout = l.Output
	cmd.Stderr = l.Output

	started := make(chan error, 1)
	go func() { started <- cmd.Start() }()

	select {
	case err := <-started:
		if err != nil {
			return nil, fmt.Errorf("starting %s: %w", l.Command, err)
		}
	case <-ctx.Done():
		// Reap the process if Start eventually succeeds.
		go func() {
			if err := <-started; err == nil {
				_ = cmd.Process.Kill()
				_ = cmd.Wait()
			}
		}()
		return nil, fmt.Errorf("%w: %v", ErrStartTimeout, ctx.Err())
	}

	p := &execProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

type execProcess struct {
	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

func (p *execProcess) PID() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Done() <-chan struct{} {
	return p.done
}

func (p *execProcess) Err() error {
	select {
	case <-p.done:
		return p.waitErr
	default:
		return nil
	}
}

func (p *execProcess) Stop() error {
	select {
	case <-p.done:
		return nil
	default:
	}

	if err := p.cmd.Process.Signal(os.Interrupt); err != nil {
		// Interrupt is unsupported on some platforms
		if killErr := p.cmd.Process.Kill(); killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
			return fmt.Errorf("killing GROBID: %w", killErr)
		}
	}

	select {
	case <-p.done:
	case <-time.After(stopGrace):
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("killing GROBID: %w", err)
		}
		<-p.done
	}
	return nil
}
