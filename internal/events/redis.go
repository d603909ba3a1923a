package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Channel returns the pub/sub channel carrying events for one session.
func Channel(sessionID string) string {
	return "interview:" + sessionID + ":events"
}

type RedisSink struct {
	rdb *redis.Client
	log *logrus.Logger
}

func NewRedisSink(rdb *redis.Client, log *logrus.Logger) *RedisSink {
	return &RedisSink{rdb: rdb, log: log}
}

func (s *RedisSink) Publish(ctx context.Context, sessionID string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		s.log.WithError(err).Warn("event marshal failed")
		return
	}
	if err := s.rdb.Publish(ctx, Channel(sessionID), string(b)).Err(); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("event publish failed")
	}
}
