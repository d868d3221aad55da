package cache

import (
	"testing"

	"github.com/bradfitz/iter"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/ttesting"
)

func TestKeyOf(t *testing.T) {
	pal := palette.Dummy()
	a := KeyOf([]byte{1, 2}, []byte{3}, pal, "png")
	ttesting.AssertEqualBool(t, "stable", a == KeyOf([]byte{1, 2}, []byte{3}, pal, "png"), true)
	ttesting.AssertEqualBool(t, "parts are separate", a == KeyOf([]byte{1}, []byte{2, 3}, pal, "png"), false)
	ttesting.AssertEqualBool(t, "format matters", a == KeyOf([]byte{1, 2}, []byte{3}, pal, "gif"), false)
	ttesting.AssertEqualBool(t, "palette matters", a == KeyOf([]byte{1, 2}, []byte{3}, pal[:3], "png"), false)
}

func TestCache(t *testing.T) {
	c, err := New[int](2)
	ttesting.AssertNoError(t, "new", err)

	k := func(i int) Key { return KeyOf([]byte{byte(i)}, nil, nil, "") }
	for i := range iter.N(3) {
		c.Add(k(i), i*10)
	}
	ttesting.AssertEqualInt(t, "len", c.Len(), 2)

	_, ok := c.Get(k(0))
	ttesting.AssertEqualBool(t, "oldest evicted", ok, false)
	v, ok := c.Get(k(2))
	ttesting.AssertEqualBool(t, "newest kept", ok, true)
	ttesting.AssertEqualInt(t, "value", v, 20)

	s := c.Stats()
	ttesting.AssertEqualInt(t, "hits", int(s.Hits), 1)
	ttesting.AssertEqualInt(t, "misses", int(s.Misses), 1)
	ttesting.AssertEqualInt(t, "evictions", int(s.Evictions), 1)

	c.Purge()
	ttesting.AssertEqualInt(t, "purged", c.Len(), 0)
}

func TestGetOrMake(t *testing.T) {
	c, err := New[string](4)
	ttesting.AssertNoError(t, "new", err)
	k := KeyOf([]byte("block"), nil, nil, "png")

	calls := 0
	fn := func() (string, error) {
		calls++
		return "encoded", nil
	}
	for range iter.N(3) {
		v, err := c.GetOrMake(k, fn)
		ttesting.AssertNoError(t, "get or make", err)
		ttesting.AssertEqualString(t, "value", v, "encoded")
	}
	ttesting.AssertEqualInt(t, "made once", calls, 1)

	boom := errors.New("boom")
	_, err = c.GetOrMake(KeyOf(nil, nil, nil, "gif"), func() (string, error) { return "", boom })
	ttesting.AssertErrorIs(t, "error returned", err, boom)
	ttesting.AssertEqualInt(t, "error not cached", c.Len(), 1)
}

func TestNewBadSize(t *testing.T) {
	if _, err := New[int](0); err == nil {
		t.Errorf("no error for zero size")
	}
}
