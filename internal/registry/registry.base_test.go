package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/common"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("views", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("views", 2)
	require.NoError(t, err)
	assert.False(t, isNew, "đăng ký lại phải báo ghi đè")

	v, ok := r.Get("views")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, err = r.Register("", 3)
	assert.ErrorIs(t, err, common.ErrRequiredField)
}

func TestRegistry_MustGet(t *testing.T) {
	r := NewRegistry[string]()
	_, err := r.MustGet("missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry[string]()
	calls := 0
	creator := func() (string, error) {
		calls++
		return "created", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := r.GetOrCreate("k", creator)
			assert.NoError(t, err)
			assert.Equal(t, "created", v)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)

	_, err := r.GetOrCreate("bad", func() (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
	_, ok := r.Get("bad")
	assert.False(t, ok)
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry[int]()
	_, _ = r.Register("videos", 1)
	_, _ = r.Register("comments", 2)
	assert.Equal(t, []string{"comments", "videos"}, r.Names())
}
