package shrepl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_SettlesExactlyOnce(t *testing.T) {
	o := newOutcome()
	o.resolve("first")
	o.reject(errors.New("late rejection must lose"))
	o.resolve("late resolution must lose")

	out, err := o.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	// Settled outcomes answer again, identically.
	out, err = o.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", out)
}

func TestOutcome_WaitHonorsContext(t *testing.T) {
	o := newOutcome()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := o.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-o.Done():
		t.Fatal("an abandoned Wait must not settle the outcome")
	default:
	}
}
