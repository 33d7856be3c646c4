package caching

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService fronts Redis for the provisioning path. Its main job is the
// advisory NIT reservation that keeps two in-flight sagas for the same tax id
// from racing each other between validation and the document-store insert.
// The unique indexes in both stores remain the source of truth.
type CacheService interface {
	// ReserveNIT takes a TTL-bounded reservation on the tax id. Returns
	// false when another saga already holds it.
	ReserveNIT(ctx context.Context, nit string, ttl time.Duration) (bool, error)
	ReleaseNIT(ctx context.Context, nit string) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis:// and rediss:// URLs as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func nitReservationKey(nit string) string {
	return fmt.Sprintf("comercia:provisioning:nit:%s", nit)
}

func (r *redisCacheService) ReserveNIT(ctx context.Context, nit string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, nitReservationKey(nit), "reserved", ttl).Result()
}

func (r *redisCacheService) ReleaseNIT(ctx context.Context, nit string) error {
	return r.client.Del(ctx, nitReservationKey(nit)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
