package mystore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/cartcheckout/lib/mytime"
)

type envelope struct {
	UID       string
	CreatedAt time.Time
	Published bool
}

var (
	first  = envelope{UID: "1", CreatedAt: mytime.ExampleTime, Published: false}
	second = envelope{UID: "2", CreatedAt: mytime.ExampleTime.Add(time.Minute), Published: true}
	third  = envelope{UID: "3", CreatedAt: mytime.ExampleTime.Add(-time.Minute), Published: false}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	store, cleanup, err := NewInMemoryStore[envelope](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := store.Get(c, first.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = store.Put(c, first.UID, first)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		got, found, err := store.Get(c, first.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, first, got)
	})

	t.Run("List", func(t *testing.T) {
		all, err := store.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []envelope{first}, all)
	})

	t.Run("Query with filter and order", func(t *testing.T) {
		_ = store.Put(c, second.UID, second)
		_ = store.Put(c, third.UID, third)

		got, err := store.Query(c, []Filter{{Field: "Published", Compare: "=", Value: false}}, "CreatedAt")
		assert.NoError(t, err)
		assert.Equal(t, []envelope{third, first}, got)
	})

	t.Run("Query unknown field", func(t *testing.T) {
		_, err := store.Query(c, []Filter{{Field: "Unknown", Compare: "=", Value: false}}, "")
		assert.Error(t, err)
	})

	t.Run("Query unsupported comparison", func(t *testing.T) {
		_, err := store.Query(c, []Filter{{Field: "Published", Compare: ">", Value: false}}, "")
		assert.Error(t, err)
	})
}

func TestTransaction(t *testing.T) {
	c := context.TODO()

	t.Run("Commit", func(t *testing.T) {
		store, _, _ := NewInMemoryStore[envelope](c)

		err := store.RunInTransaction(c, func(c context.Context) error {
			return store.Put(c, first.UID, first)
		})
		assert.NoError(t, err)

		_, found, _ := store.Get(c, first.UID)
		assert.True(t, found)
	})

	t.Run("Rollback", func(t *testing.T) {
		store, _, _ := NewInMemoryStore[envelope](c)
		_ = store.Put(c, first.UID, first)

		err := store.RunInTransaction(c, func(c context.Context) error {
			_ = store.Put(c, second.UID, second)
			_ = store.Put(c, first.UID, third)
			return fmt.Errorf("failed")
		})
		assert.Error(t, err)

		all, _ := store.List(c)
		assert.Equal(t, []envelope{first}, all)
	})

	t.Run("Nested", func(t *testing.T) {
		store, _, _ := NewInMemoryStore[envelope](c)

		err := store.RunInTransaction(c, func(c context.Context) error {
			return store.RunInTransaction(c, func(c context.Context) error {
				return store.Put(c, first.UID, first)
			})
		})
		assert.NoError(t, err)
	})

	t.Run("Other store in transaction", func(t *testing.T) {
		store, _, _ := NewInMemoryStore[envelope](c)
		other, _, _ := NewInMemoryStore[envelope](c)

		err := store.RunInTransaction(c, func(c context.Context) error {
			err := store.Put(c, first.UID, first)
			if err != nil {
				return err
			}
			return other.Put(c, second.UID, second)
		})
		assert.NoError(t, err)

		_, found, _ := other.Get(c, second.UID)
		assert.True(t, found)
	})
}
