// Package cpptraj runs AmberTools' cpptraj with a script fed on stdin
package cpptraj

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes a cpptraj script. The pipelines only talk to cpptraj
// through a Runner so it can be swapped out in tests
type Runner interface {
	Run(script string) (Result, error)
}

// Result is the captured output of one cpptraj invocation
type Result struct {
	Stdout string
	Stderr string
}

// ExitError is returned by Run when cpptraj exits with a non-zero status
type ExitError struct {
	// Code is cpptraj's exit status
	Code int

	// Stderr is everything cpptraj wrote to stderr
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("cpptraj exited with status %d", e.Code)
	}
	return fmt.Sprintf("cpptraj exited with status %d: %s", e.Code, msg)
}

// Exec is a Runner that calls a cpptraj binary
type Exec struct {
	// Binary points to the cpptraj executable. If cpptraj is in your
	// PATH, "cpptraj" is enough
	Binary string

	// Verbose controls whether each script is echoed to Log before it runs
	Verbose bool

	// Log is where scripts are echoed. Defaults to stderr
	Log io.Writer
}

// Run starts cpptraj with the script on stdin and blocks until it exits.
// Stdout and stderr are captured separately. A non-zero exit is returned
// as an *ExitError along with whatever was captured
func (e Exec) Run(script string) (Result, error) {
	binary := e.Binary
	if binary == "" {
		binary = "cpptraj"
	}

	if e.Verbose {
		log := e.Log
		if log == nil {
			log = os.Stderr
		}
		fmt.Fprintf(log, "%s <<EOF%sEOF\n", binary, script)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(binary)
	cmd.Stdin = strings.NewReader(script)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return res, &ExitError{Code: exitErr.ExitCode(), Stderr: res.Stderr}
		}
		return res, fmt.Errorf("failed to execute %s: %w", binary, err)
	}

	return res, nil
}
