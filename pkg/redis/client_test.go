package redis

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values  map[string]string
	expires map[string]time.Duration
	counts  map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		values:  map[string]string{},
		expires: map[string]time.Duration{},
		counts:  map[string]int64{},
	}
}

func (f *fakeStore) Ping(ctx context.Context) *redislib.StatusCmd {
	cmd := redislib.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *redislib.StatusCmd {
	f.values[key] = value.(string)
	f.expires[key] = ttl
	cmd := redislib.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeStore) Get(ctx context.Context, key string) *redislib.StringCmd {
	cmd := redislib.NewStringCmd(ctx)
	if val, ok := f.values[key]; ok {
		cmd.SetVal(val)
	} else {
		cmd.SetErr(redislib.Nil)
	}
	return cmd
}

func (f *fakeStore) GetDel(ctx context.Context, key string) *redislib.StringCmd {
	cmd := redislib.NewStringCmd(ctx)
	if val, ok := f.values[key]; ok {
		cmd.SetVal(val)
		delete(f.values, key)
	} else {
		cmd.SetErr(redislib.Nil)
	}
	return cmd
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redislib.BoolCmd {
	cmd := redislib.NewBoolCmd(ctx)
	if _, ok := f.values[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	f.values[key] = value.(string)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeStore) Incr(ctx context.Context, key string) *redislib.IntCmd {
	f.counts[key]++
	cmd := redislib.NewIntCmd(ctx)
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) *redislib.BoolCmd {
	f.expires[key] = ttl
	cmd := redislib.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redislib.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	cmd := redislib.NewIntCmd(ctx)
	cmd.SetVal(removed)
	return cmd
}

func TestGetDelConsumesValue(t *testing.T) {
	client := &Client{store: newFakeStore()}
	ctx := context.Background()

	key := client.ChallengeKey("abc")
	if err := client.Set(ctx, key, "X7K9QZ", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, err := client.GetDel(ctx, key)
	if err != nil {
		t.Fatalf("getdel: %v", err)
	}
	if val != "X7K9QZ" {
		t.Fatalf("unexpected value %q", val)
	}

	if _, err := client.Get(ctx, key); err != redislib.Nil {
		t.Fatalf("expected redis.Nil after consume, got %v", err)
	}
}

func TestFixedWindowAllow(t *testing.T) {
	client := &Client{store: newFakeStore()}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := client.FixedWindowAllow(ctx, "login:1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	ok, count, err := client.FixedWindowAllow(ctx, "login:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Fatal("fourth attempt should be rejected")
	}
	if count != 4 {
		t.Fatalf("unexpected count %d", count)
	}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	client := &Client{}
	if got := client.ChallengeKey("id1"); got != "sf:challenge:id1" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := client.AccessSessionKey("jti"); got != "sf:session:access:jti" {
		t.Fatalf("unexpected key %q", got)
	}
}
