package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tds/pkg/adapters/memory"
	"github.com/aretw0/tds/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ResultContract(t *testing.T) {
	ports.RunResultStoreContract(t, memory.NewStore())
}

func TestMemoryStore_AnswerContract(t *testing.T) {
	ports.RunAnswerStoreContract(t, memory.NewStore())
}

func TestSource_LoadAndSet(t *testing.T) {
	ctx := context.Background()
	src := memory.NewSource([]any{map[string]any{"code": "A1"}})

	doc, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc, 1)

	watchCtx, cancel := context.WithCancel(ctx)
	ch, err := src.Watch(watchCtx)
	require.NoError(t, err)

	src.Set(map[string]any{"zones": []any{}})
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected watch signal after Set")
	}

	doc, err = src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"zones": []any{}}, doc)

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-ch
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := memory.NewSource(nil).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
