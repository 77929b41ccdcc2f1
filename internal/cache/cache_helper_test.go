package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T, prefix string) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, prefix), mr
}

type cachedValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func TestCacheSetAndGet(t *testing.T) {
	helper, _ := newTestHelper(t, "content:")
	ctx := context.Background()

	want := cachedValue{Key: "home.description", Value: "Welcome"}
	if err := helper.Set(ctx, "entry:home.description", want, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got cachedValue
	if err := helper.Get(ctx, "entry:home.description", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCacheGetMiss(t *testing.T) {
	helper, _ := newTestHelper(t, "content:")

	var got cachedValue
	err := helper.Get(context.Background(), "entry:missing", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get() error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheKeyPrefixing(t *testing.T) {
	helper, mr := newTestHelper(t, "content:")
	ctx := context.Background()

	if err := helper.SetString(ctx, "entry:x", "v", time.Minute); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	if !mr.Exists("content:entry:x") {
		t.Error("expected key stored under the helper prefix")
	}
}

func TestCacheDelete(t *testing.T) {
	helper, mr := newTestHelper(t, "content:")
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := helper.SetString(ctx, key, "v", time.Minute); err != nil {
			t.Fatalf("SetString() error = %v", err)
		}
	}
	if err := helper.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if mr.Exists("content:a") || mr.Exists("content:b") {
		t.Error("deleted keys still present")
	}
	if !mr.Exists("content:c") {
		t.Error("unrelated key was removed")
	}
}

func TestCacheExists(t *testing.T) {
	helper, _ := newTestHelper(t, "content:")
	ctx := context.Background()

	if err := helper.SetString(ctx, "present", "v", time.Minute); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}

	exists, err := helper.Exists(ctx, "present")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("expected stored key to exist")
	}

	exists, err = helper.Exists(ctx, "absent")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("expected missing key to not exist")
	}
}

func TestCacheInvalidatePattern(t *testing.T) {
	helper, mr := newTestHelper(t, "content:")
	ctx := context.Background()

	keys := []string{"resolve:home.description:EN", "resolve:home.description:ES", "entry:home.description"}
	for _, key := range keys {
		if err := helper.SetString(ctx, key, "v", time.Minute); err != nil {
			t.Fatalf("SetString() error = %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "resolve:home.description:*"); err != nil {
		t.Fatalf("InvalidatePattern() error = %v", err)
	}

	if mr.Exists("content:resolve:home.description:EN") || mr.Exists("content:resolve:home.description:ES") {
		t.Error("pattern invalidation left matching keys behind")
	}
	if !mr.Exists("content:entry:home.description") {
		t.Error("pattern invalidation removed a non-matching key")
	}
}

func TestCacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t, "content:")
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedValue{Key: "k", Value: "fetched"}, nil
	}

	var first cachedValue
	if err := helper.CacheOrExecute(ctx, "k", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() error = %v", err)
	}
	if first.Value != "fetched" || calls != 1 {
		t.Fatalf("first call: value = %q, calls = %d", first.Value, calls)
	}

	// Second call is served from cache.
	var second cachedValue
	if err := helper.CacheOrExecute(ctx, "k", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() error = %v", err)
	}
	if second.Value != "fetched" || calls != 1 {
		t.Errorf("second call: value = %q, calls = %d; want cache hit", second.Value, calls)
	}
}

func TestCacheOrExecuteFetchFailure(t *testing.T) {
	helper, _ := newTestHelper(t, "content:")

	var dest cachedValue
	err := helper.CacheOrExecute(context.Background(), "k", &dest, time.Minute, func() (interface{}, error) {
		return nil, errors.New("store down")
	})
	if err == nil {
		t.Error("expected fetch error to surface")
	}
}

func TestCacheDegradesWithoutClient(t *testing.T) {
	helper := NewCacheHelper(nil, "content:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set() without client error = %v, want nil", err)
	}

	var dest cachedValue
	if err := helper.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() without client error = %v, want ErrCacheNotAvailable", err)
	}

	// The cache-aside path must still execute the fetch.
	if err := helper.CacheOrExecute(ctx, "k", &dest, time.Minute, func() (interface{}, error) {
		return cachedValue{Value: "fetched"}, nil
	}); err != nil {
		t.Fatalf("CacheOrExecute() without client error = %v", err)
	}
	if dest.Value != "fetched" {
		t.Errorf("value = %q, want %q", dest.Value, "fetched")
	}
}

func TestCacheManagerHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	manager := NewCacheManager(client)
	if err := manager.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	degraded := NewCacheManager(nil)
	if err := degraded.HealthCheck(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("HealthCheck() without client error = %v, want ErrCacheNotAvailable", err)
	}
}
