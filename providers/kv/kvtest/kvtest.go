// Package kvtest is the behavioral suite every [kv.Store] implementation must pass.
package kvtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leofalp/quickchat/providers/kv"
)

// Run exercises the store returned by newStore. newStore is called once per
// subtest and must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) kv.Store) {
	t.Helper()

	t.Run("MissingKey", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "absent")
		require.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("SetGet", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "conversations", []byte(`[]`)))
		got, err := s.Get(ctx, "conversations")
		require.NoError(t, err)
		require.Equal(t, []byte(`[]`), got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "selected_model", []byte("gemini-2.5-pro")))
		require.NoError(t, s.Set(ctx, "selected_model", []byte("gemini-2.5-flash")))
		got, err := s.Get(ctx, "selected_model")
		require.NoError(t, err)
		require.Equal(t, "gemini-2.5-flash", string(got))
	})

	t.Run("EmptyValue", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "system_prompt", []byte{}))
		got, err := s.Get(ctx, "system_prompt")
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "api_key_Grok", []byte("xai-1")))
		require.NoError(t, s.Delete(ctx, "api_key_Grok"))
		_, err := s.Get(ctx, "api_key_Grok")
		require.ErrorIs(t, err, kv.ErrNotFound)
		require.NoError(t, s.Delete(ctx, "api_key_Grok"), "deleting a missing key must succeed")
	})

	t.Run("ValueIsCopied", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		value := []byte("original")
		require.NoError(t, s.Set(ctx, "k", value))
		value[0] = 'X'

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "original", string(got))

		got[0] = 'Y'
		again, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "original", string(again))
	})

	t.Run("Concurrent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				key := fmt.Sprintf("key-%d", i)
				for j := range 10 {
					if err := s.Set(ctx, key, []byte(fmt.Sprint(j))); err != nil {
						t.Error(err)
						return
					}
					if _, err := s.Get(ctx, key); err != nil {
						t.Error(err)
						return
					}
				}
			}()
		}
		wg.Wait()
		for i := range 8 {
			got, err := s.Get(ctx, fmt.Sprintf("key-%d", i))
			require.NoError(t, err)
			require.Equal(t, "9", string(got))
		}
	})
}
