package capture_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndnfastpath/router/internal/capture"
)

func TestReplaySourceNonRepeatingExhausts(t *testing.T) {
	src := capture.NewReplaySource([]capture.Frame{
		{Data: []byte{1}, IngressIfindex: 1},
		{Data: []byte{2}, IngressIfindex: 1},
	}, false)

	ctx := context.Background()
	f1, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, f1.Data)

	f2, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, f2.Data)

	_, err = src.Next(ctx)
	assert.Error(t, err)
}

func TestReplaySourceRepeatsForever(t *testing.T) {
	src := capture.NewReplaySource([]capture.Frame{
		{Data: []byte{1}, IngressIfindex: 1},
	}, true)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f, err := src.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, f.Data)
	}
}

func TestReplaySourceRespectsCancelledContext(t *testing.T) {
	src := capture.NewReplaySource([]capture.Frame{{Data: []byte{1}}}, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Next(ctx)
	assert.Error(t, err)
}
