package redis

import (
	"context"
	"testing"

	"github.com/shopmicro/storefront-backend/pkg/config"
)

func TestKeyBuilders(t *testing.T) {
	c := &Client{}

	if got := c.CartKey("device-123"); got != "sm:cart:device-123" {
		t.Fatalf("unexpected cart key: %s", got)
	}
	if got := c.IdentityKey("user-1"); got != "sm:identity:user-1" {
		t.Fatalf("unexpected identity key: %s", got)
	}
	if got := c.AccessSessionKey("abc"); got != "sm:session:access:abc" {
		t.Fatalf("unexpected session key: %s", got)
	}
	if got := c.buildKey("cart", "", "x"); got != "sm:cart:x" {
		t.Fatalf("expected empty parts to be skipped, got %s", got)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}
}

func TestOptionsFromConfigAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:  "localhost:6379",
		Password: "secret",
		DB:       2,
		PoolSize: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.Password != "secret" || opts.DB != 2 || opts.PoolSize != 5 {
		t.Fatalf("options not applied: %+v", opts)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	c := &Client{}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}
