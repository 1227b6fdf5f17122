package activity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	pipelineerrors "github.com/codeready-toolchain/knowledgepipeline/internal/errors"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// Func is the shape of a retryable, idempotent activity: it takes a typed
// input, runs once, and returns a typed output.
type Func[In any, Out any] func(ctx context.Context, ac Context, in In) (Out, error)

// RetryPolicy configures the exponential backoff applied around an activity
// call: initial 1s, cap 60s, a bounded attempt count.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval time.Duration
	MaxAttempts int
}

// Execute runs fn for (workflowID, activityName, in), first checking the
// idempotency log so a retried or resumed workflow never re-executes an
// activity whose input hash already has a recorded successful result,
// then retrying transient failures with exponential backoff while
// treating a *pipelineerrors.PermanentError as immediately fatal.
func Execute[In any, Out any](ctx context.Context, ac Context, policy RetryPolicy, workflowID, activityName string, in In, fn Func[In, Out]) (Out, error) {
	var zero Out

	hash, err := store.HashInput(in)
	if err != nil {
		return zero, err
	}

	if done, cached, cerr := ac.Store.AlreadyExecuted(ctx, workflowID, activityName, hash); cerr == nil && done {
		var out Out
		if err := json.Unmarshal(cached, &out); err == nil {
			return out, nil
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval
	b.MaxInterval = policy.MaxInterval
	bctx := backoff.WithMaxRetries(b, uint64(policy.MaxAttempts-1))

	var out Out
	var lastErr error
	retryErr := backoff.Retry(func() error {
			out, lastErr = fn(ctx, ac, in)
			if lastErr == nil {
				return nil
			}
			if pipelineerrors.IsPermanent(lastErr) {
				return backoff.Permanent(lastErr)
			}
			return lastErr
		}, backoff.WithContext(bctx, ctx))

	success := retryErr == nil
	var payload []byte
	if success {
		payload, _ = json.Marshal(out)
	}
	_ = ac.Store.RecordExecution(ctx, workflowID, activityName, hash, payload, success, lastErr)

	if retryErr != nil {
		var permErr *pipelineerrors.PermanentError
		if errors.As(retryErr, &permErr) {
			return zero, permErr
		}
		return zero, lastErr
	}
	return out, nil
}
