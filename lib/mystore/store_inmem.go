package mystore

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"sync"
	"time"
)

type InMemoryStore[T any] struct {
	sync.Mutex
	Items map[string]T
}

func NewInMemoryStore[T any](c context.Context) (*InMemoryStore[T], func(), error) {
	return &InMemoryStore[T]{
		Items: make(map[string]T),
	}, func() {}, nil
}

func (s *InMemoryStore[T]) inTransaction(c context.Context) bool {
	txStore, ok := c.Value(ctxTransactionKey{}).(*InMemoryStore[T])
	return ok && txStore == s
}

func (s *InMemoryStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	if s.inTransaction(c) {
		// Nested: join the running transaction
		return f(c)
	}

	// Start transaction
	s.Lock()
	defer s.Unlock()

	snapshot := maps.Clone(s.Items)

	ctx := context.WithValue(c, ctxTransactionKey{}, s)

	err := f(ctx)
	if err != nil {
		// Rollback
		s.Items = snapshot
		return err
	}

	// Commit
	return nil
}

func (s *InMemoryStore[T]) Put(c context.Context, uid string, value T) error {
	if !s.inTransaction(c) {
		s.Lock()
		defer s.Unlock()
	}

	s.Items[uid] = value

	return nil
}

func (s *InMemoryStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	if !s.inTransaction(c) {
		s.Lock()
		defer s.Unlock()
	}

	result, exists := s.Items[uid]

	return result, exists, nil
}

func (s *InMemoryStore[T]) List(c context.Context) ([]T, error) {
	if !s.inTransaction(c) {
		s.Lock()
		defer s.Unlock()
	}

	result := make([]T, 0, len(s.Items))
	for _, v := range s.Items {
		result = append(result, v)
	}

	return result, nil
}

// Query supports equality filters only.
func (s *InMemoryStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	all, err := s.List(c)
	if err != nil {
		return nil, err
	}

	result := []T{}
	for _, item := range all {
		matches, err := matchesAll(item, filters)
		if err != nil {
			return nil, err
		}
		if matches {
			result = append(result, item)
		}
	}

	if orderByField != "" {
		err = sortOnField(result, orderByField)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func matchesAll(item any, filters []Filter) (bool, error) {
	for _, f := range filters {
		if f.Compare != "=" {
			return false, fmt.Errorf("unsupported comparison '%s' on field %s", f.Compare, f.Field)
		}
		value, err := fieldValue(item, f.Field)
		if err != nil {
			return false, err
		}
		if !reflect.DeepEqual(value, f.Value) {
			return false, nil
		}
	}
	return true, nil
}

func fieldValue(item any, fieldName string) (any, error) {
	v := reflect.Indirect(reflect.ValueOf(item))
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot filter on field %s of non-struct %T", fieldName, item)
	}
	field := v.FieldByName(fieldName)
	if !field.IsValid() {
		return nil, fmt.Errorf("unknown field %s on %T", fieldName, item)
	}
	return field.Interface(), nil
}

func sortOnField[T any](items []T, fieldName string) error {
	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		left, err := fieldValue(items[i], fieldName)
		if err != nil {
			sortErr = err
			return false
		}
		right, err := fieldValue(items[j], fieldName)
		if err != nil {
			sortErr = err
			return false
		}
		return less(left, right)
	})
	return sortErr
}

func less(left, right any) bool {
	switch l := left.(type) {
	case time.Time:
		return l.Before(right.(time.Time))
	case string:
		return l < right.(string)
	case int:
		return l < right.(int)
	case int64:
		return l < right.(int64)
	case bool:
		return !l && right.(bool)
	default:
		return fmt.Sprint(left) < fmt.Sprint(right)
	}
}
