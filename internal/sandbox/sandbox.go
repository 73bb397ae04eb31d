package sandbox

import "context"

// ExecResult is what one script execution inside the sandbox produced.
type ExecResult struct {
	ExitCode int    `json:"exit_code"`
	Output   string `json:"output"`
	TestName string `json:"test_name"`
}

// Environment is a disposable isolated runtime for generated test scripts.
// Initialize failures mark the environment unavailable for the rest of the
// session; callers do not retry.
type Environment interface {
	Initialize(ctx context.Context) error
	Execute(ctx context.Context, script, name string) (*ExecResult, error)
	Cleanup(ctx context.Context) error
}
