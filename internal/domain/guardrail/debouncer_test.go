package guardrail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func Test_Debouncer_Do(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	called := false
	err := d.Do(context.Background(), "user1", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, 0, d.Pending())
}

func Test_Debouncer_Supersede(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var wg sync.WaitGroup
	var firstErr error
	firstCalled := false

	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = d.Do(context.Background(), "user1", func(ctx context.Context) error {
			firstCalled = true
			return nil
		})
	}()

	// Let the first call start waiting.
	require.Eventually(t, func() bool { return d.Pending() == 1 }, time.Second, time.Millisecond)

	secondCalled := false
	err := d.Do(context.Background(), "user1", func(ctx context.Context) error {
		secondCalled = true
		return nil
	})

	wg.Wait()
	require.NoError(t, err)
	require.True(t, secondCalled)
	require.False(t, firstCalled)
	require.True(t, errors.Is(firstErr, ErrSuperseded))
	require.Equal(t, 0, d.Pending())
}

func Test_Debouncer_SupersedeRunning(t *testing.T) {
	d := NewDebouncer(time.Millisecond)

	started := make(chan struct{})
	var wg sync.WaitGroup
	var firstErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = d.Do(context.Background(), "user1", func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	<-started
	err := d.Do(context.Background(), "user1", func(ctx context.Context) error { return nil })
	wg.Wait()

	require.NoError(t, err)
	require.True(t, errors.Is(firstErr, ErrSuperseded))
}

func Test_Debouncer_IndependentKeys(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, key := range []string{"user1", "user2"} {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			errs[i] = d.Do(context.Background(), key, func(ctx context.Context) error { return nil })
		}(i, key)
	}

	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
}

func Test_Debouncer_ParentCancelled(t *testing.T) {
	d := NewDebouncer(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Do(ctx, "user1", func(ctx context.Context) error { return nil })
	require.True(t, errors.Is(err, context.Canceled))
}
