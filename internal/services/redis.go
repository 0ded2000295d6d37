package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const (
	latestTestimonialsKey = "testimonials:latest"
	latestTestimonialsTTL = 5 * time.Minute

	reservationEventsChannel = "reservation:updates"
)

// InitRedis initializes the Redis client
func InitRedis(redisURL string) error {
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	ctx := context.Background()
	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheLatestTestimonials stores the serialized latest-testimonials response.
func CacheLatestTestimonials(ctx context.Context, data []byte) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(ctx, latestTestimonialsKey, data, latestTestimonialsTTL).Err()
}

// GetCachedLatestTestimonials returns the cached response, or nil on a miss.
func GetCachedLatestTestimonials(ctx context.Context) []byte {
	if RedisClient == nil {
		return nil
	}
	data, err := RedisClient.Get(ctx, latestTestimonialsKey).Bytes()
	if err != nil {
		return nil
	}
	return data
}

// InvalidateLatestTestimonials drops the cache after a testimonial write.
func InvalidateLatestTestimonials(ctx context.Context) {
	if RedisClient == nil {
		return
	}
	RedisClient.Del(ctx, latestTestimonialsKey)
}

// PublishReservationEvent publishes a reservation change to Redis pub/sub so
// other instances can feed their websocket clients.
func PublishReservationEvent(ctx context.Context, eventType string, reservation interface{}) error {
	if RedisClient == nil {
		return nil
	}

	event := map[string]interface{}{
		"type":        eventType,
		"reservation": reservation,
		"timestamp":   time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, reservationEventsChannel, data).Err()
}
