package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "ledger/abc/balance", Key("ledger", "abc", "balance"))
}

func TestPutGet(t *testing.T) {
	s := New()
	s.Put(Key("ledger", "a", "balance"), 42)

	v, ok := s.Get(Key("ledger", "a", "balance"))
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = s.Get(Key("ledger", "b", "balance"))
	assert.False(t, ok)
}

func TestInvalidateByPrefix(t *testing.T) {
	s := New()
	s.Put(Key("ledger", "a", "balance"), 1)
	s.Put(Key("ledger", "a", "transactions"), 2)
	s.Put(Key("ledger", "b", "balance"), 3)
	s.Put(Key("sessions", "a"), 4)

	n := s.Invalidate(Key("ledger", "a"))
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Len())

	_, ok := s.Get(Key("ledger", "a", "balance"))
	assert.False(t, ok)
	_, ok = s.Get(Key("ledger", "b", "balance"))
	assert.True(t, ok)
	_, ok = s.Get(Key("sessions", "a"))
	assert.True(t, ok)
}

func TestInvalidatingNotifier(t *testing.T) {
	s := New()
	s.Put(Key("sessions", "a", "list"), 1)

	InvalidatingNotifier{Cache: s}.Changed(Key("sessions", "a"))

	_, ok := s.Get(Key("sessions", "a", "list"))
	assert.False(t, ok)
}

func TestRepeatedInvalidationIsIdempotent(t *testing.T) {
	s := New()
	s.Put("ledger/a", 1)

	assert.Equal(t, 1, s.Invalidate("ledger"))
	assert.Equal(t, 0, s.Invalidate("ledger"))
}
