// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import (
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int]()
	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCacheGetSet(t *testing.T) {
	c := New[string, int]()

	c.Set("key1", 42)

	val, ok := c.Get("key1")
	if !ok {
		t.Error("expected key1 to exist")
	}
	if val != 42 {
		t.Errorf("Get(key1) = %d, want 42", val)
	}

	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() hits/misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("HitRate = %v, want 0.5", stats.HitRate)
	}
}

func TestCacheSetReplaces(t *testing.T) {
	c := New[string, int]()
	c.Set("key", 1)
	c.Set("key", 2)

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if v, _ := c.Peek("key"); v != 2 {
		t.Errorf("Peek(key) = %d, want 2", v)
	}
}

func TestCacheDelete(t *testing.T) {
	c := New[string, int]()
	c.Set("key1", 42)

	v, ok := c.Delete("key1")
	if !ok || v != 42 {
		t.Errorf("Delete(key1) = (%d, %v), want (42, true)", v, ok)
	}
	if _, ok := c.Delete("key1"); ok {
		t.Error("expected second Delete to report missing key")
	}
}

func TestCacheDeleteFunc(t *testing.T) {
	type key struct {
		uri  string
		mode int
	}
	c := New[key, int]()
	c.Set(key{"a", 1}, 1)
	c.Set(key{"a", 2}, 2)
	c.Set(key{"b", 1}, 3)

	removed := c.DeleteFunc(func(k key, _ int) bool { return k.uri == "a" })
	slices.Sort(removed)
	if !slices.Equal(removed, []int{1, 2}) {
		t.Errorf("DeleteFunc removed %v, want [1 2]", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if _, ok := c.Peek(key{"b", 1}); !ok {
		t.Error("entry for b was removed")
	}
}

func TestCacheClear(t *testing.T) {
	c := New[string, int]()
	for i, k := range []string{"a", "b", "c"} {
		c.Set(k, i)
	}

	removed := c.Clear()
	if len(removed) != 3 {
		t.Errorf("Clear() returned %d values, want 3", len(removed))
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
}

func TestCacheSum(t *testing.T) {
	c := New[string, []byte]()
	c.Set("a", make([]byte, 10))
	c.Set("b", make([]byte, 32))

	if got := c.Sum(func(b []byte) int { return len(b) }); got != 42 {
		t.Errorf("Sum() = %d, want 42", got)
	}

	c.Delete("a")
	if got := c.Sum(func(b []byte) int { return len(b) }); got != 32 {
		t.Errorf("Sum() after Delete = %d, want 32", got)
	}
}

func TestCacheKeysByAge(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch a so that b becomes the oldest.
	c.Get("a")

	got := c.KeysByAge()
	want := []string{"b", "c", "a"}
	if !slices.Equal(got, want) {
		t.Errorf("KeysByAge() = %v, want %v", got, want)
	}

	// Peek must not change the order.
	c.Peek("b")
	if got := c.KeysByAge(); !slices.Equal(got, want) {
		t.Errorf("KeysByAge() after Peek = %v, want %v", got, want)
	}
}
