package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/playpool/aimline/internal/aim"
	"github.com/redis/go-redis/v9"
)

// FramesChannel carries frames between server instances.
const FramesChannel = "aim_frames"

const publishTimeout = 2 * time.Second

// RedisRelay is a session.Sink that publishes frames on Redis so every
// instance can deliver them to its own clients. Subscribe feeds them into
// the local hub.
type RedisRelay struct {
	rdb *redis.Client
	hub *Hub
}

func NewRedisRelay(rdb *redis.Client, hub *Hub) *RedisRelay {
	return &RedisRelay{rdb: rdb, hub: hub}
}

func (r *RedisRelay) publish(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] invalid relay payload: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.rdb.Publish(ctx, FramesChannel, payload).Err(); err != nil {
		// Local clients still get the message.
		log.Printf("[WS] publish to %s failed for session %s: %v", FramesChannel, msg.SessionID, err)
		r.deliver(msg)
	}
}

// Frame implements session.Sink.
func (r *RedisRelay) Frame(sessionID string, m aim.RenderModel) {
	r.publish(Message{Type: "frame", SessionID: sessionID, Frame: &m})
}

// Closed implements session.Sink.
func (r *RedisRelay) Closed(sessionID string) {
	r.publish(Message{Type: "closed", SessionID: sessionID})
}

func (r *RedisRelay) deliver(msg Message) {
	switch msg.Type {
	case "frame":
		if msg.Frame != nil {
			r.hub.Frame(msg.SessionID, *msg.Frame)
		}
	case "closed":
		r.hub.Closed(msg.SessionID)
	default:
		log.Printf("[WS] unknown relay message type: %s", msg.Type)
	}
}

// Subscribe listens on FramesChannel until ctx is cancelled.
func (r *RedisRelay) Subscribe(ctx context.Context) {
	pubsub := r.rdb.Subscribe(ctx, FramesChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", FramesChannel)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[WS] %s subscriber stopping", FramesChannel)
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					log.Printf("[WS] invalid relay payload: %v", err)
					continue
				}
				if r.hub.RoomSize(msg.SessionID) == 0 {
					continue
				}
				r.deliver(msg)
			}
		}
	}()
}
