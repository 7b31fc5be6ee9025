/*
Copyright 2026 The Kubermatic Kubernetes Platform contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"

	k8swait "k8s.io/apimachinery/pkg/util/wait"
)

const (
	// DefaultPollInterval is the delay between two attempts of ForResource.
	DefaultPollInterval = 5 * time.Second
	// DefaultPollAttempts is the number of attempts ForResource makes.
	DefaultPollAttempts = 20
)

// ConditionFunc must return a transient error while the condition is not
// yet met and a terminal error if waiting makes no sense anymore. Returning
// nil for both signals success.
type ConditionFunc func(ctx context.Context) (transient error, terminal error)

// ProbeFunc reports whether a resource exists. A resource that does not
// exist yet is not an error.
type ProbeFunc func(ctx context.Context) (found bool, err error)

// WaitTimeoutError is returned when a resource did not reach the awaited
// condition within the attempt or time budget of a wait.
type WaitTimeoutError struct {
	Resource  string
	Condition string
	Err       error
}

func (e *WaitTimeoutError) Error() string {
	msg := fmt.Sprintf("timed out waiting for %s to %s", e.Resource, e.Condition)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *WaitTimeoutError) Unwrap() error {
	return e.Err
}

var errAttemptsExhausted = errors.New("maximum number of attempts reached")

// PollAttempts runs condition at most attempts times with interval in
// between. Terminal errors are returned immediately. If the attempts are
// used up, the last transient error is returned wrapped in the same error
// that is returned for an exhausted budget. If a logger is given,
// transient errors are logged on the INFO level.
func PollAttempts(ctx context.Context, log logrus.FieldLogger, interval time.Duration, attempts int, condition ConditionFunc) error {
	if attempts < 1 {
		return fmt.Errorf("invalid number of attempts %d", attempts)
	}

	var (
		lastErr error
		attempt int
	)

	backoff := k8swait.Backoff{
		Duration: interval,
		Factor:   1,
		Steps:    attempts,
	}

	waitErr := k8swait.ExponentialBackoffWithContext(ctx, backoff, func(ctx context.Context) (bool, error) {
		// stop waiting if the given context was cancelled
		if err := ctx.Err(); err != nil {
			return false, err
		}

		attempt++

		transient, terminal := condition(ctx)
		if terminal != nil {
			return false, terminal
		}

		lastErr = transient
		if transient == nil {
			return true, nil
		}

		if log != nil {
			log.Infof("Waiting (attempt %d/%d): %s", attempt, attempts, transient.Error())
		}

		if attempt >= attempts {
			return false, errAttemptsExhausted
		}

		return false, nil
	})

	if waitErr == nil {
		return nil
	}

	if errors.Is(waitErr, errAttemptsExhausted) || (k8swait.Interrupted(waitErr) && ctx.Err() == nil) {
		if lastErr != nil {
			return fmt.Errorf("%w; last error was: %w", errAttemptsExhausted, lastErr)
		}

		return errAttemptsExhausted
	}

	return waitErr
}

// ForResource waits until probe reports the resource as existing. The
// probe runs at most maxAttempts times with delay in between. Any probe
// error is returned right away; running out of attempts results in a
// WaitTimeoutError naming the resource.
func ForResource(ctx context.Context, log logrus.FieldLogger, resource string, delay time.Duration, maxAttempts int, probe ProbeFunc) error {
	if delay <= 0 {
		delay = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollAttempts
	}

	err := PollAttempts(ctx, log, delay, maxAttempts, func(ctx context.Context) (error, error) {
		found, err := probe(ctx)
		if err != nil {
			return nil, err
		}

		if !found {
			return fmt.Errorf("%s does not exist yet", resource), nil
		}

		return nil, nil
	})

	if errors.Is(err, errAttemptsExhausted) {
		return &WaitTimeoutError{
			Resource:  resource,
			Condition: "exist",
			Err:       err,
		}
	}

	return err
}

// Native runs a built-in SDK waiter. Errors returned by the remote API are
// passed through unchanged, every other failure means the waiter gave up
// and is reported as a WaitTimeoutError.
func Native(ctx context.Context, log logrus.FieldLogger, resource, condition string, fn func(ctx context.Context) error) error {
	if log != nil {
		log.Debugf("Waiting for %s to %s…", resource, condition)
	}

	err := fn(ctx)
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) || ctx.Err() != nil {
		return err
	}

	return &WaitTimeoutError{
		Resource:  resource,
		Condition: condition,
		Err:       err,
	}
}
