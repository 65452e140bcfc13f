package shrepl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/halfduplex/shrepl"
)

func TestRunOnce(t *testing.T) {
	ctx := context.Background()

	out, err := RunOnce(ctx, "/bin/sh", nil, "echo hi there")
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)

	_, err = RunOnce(ctx, "/bin/sh", nil, "echo oops 1>&2")
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "oops", execErr.Stderr)

	_, err = RunOnce(ctx, "/bin/sh", nil, "exit 3")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)

	_, err = RunOnce(ctx, "/no/such/shell", nil, "echo hi")
	var spawnErr *SpawnError
	assert.ErrorAs(t, err, &spawnErr)
}
