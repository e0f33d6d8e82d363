package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_EvictsWhenFull(t *testing.T) {
	c := NewCache[string, int](time.Hour, 3)
	defer c.Close()

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 3, c.Len())

	_, ok := c.Get("k0")
	assert.False(t, ok, "oldest entries are evicted")
	v, ok := c.Get("k9")
	assert.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c := NewCache[string, int](time.Hour, 2)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)
	assert.Equal(t, 2, c.Len())
	v, _ := c.Get("a")
	assert.Equal(t, 3, v)
	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache[string, int](10*time.Millisecond, 0)
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}
