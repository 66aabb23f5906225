package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes for different failure modes
const (
	ExitSuccess          = 0 // Estimate succeeded
	ExitEstimationFailed = 1 // The endpoint could not produce a record
	ExitError            = 2 // Configuration or runtime error
)

// EstimationFailedError indicates that the request was issued but no
// nutrition record could be produced from it.
type EstimationFailedError struct {
	Message string
	Err     error
}

func (e *EstimationFailedError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *EstimationFailedError) Unwrap() error {
	return e.Err
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		var failed *EstimationFailedError
		if errors.As(err, &failed) {
			os.Exit(ExitEstimationFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
