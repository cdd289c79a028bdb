package common

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abi-lab/backend/pkg/pubsub"
	"github.com/abi-lab/backend/pkg/xcontext"
)

const (
	TopicQuestionCreated      = "community.question_created"
	TopicAnswerCreated        = "community.answer_created"
	TopicAnswerAccepted       = "community.answer_accepted"
	TopicVoteCast             = "community.vote_cast"
	TopicBadgeAwarded         = "community.badge_awarded"
	TopicRequestStatusChanged = "requests.status_changed"
)

type Event struct {
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// PublishEvent sends an event after the transaction which caused it was
// committed. Failures are only logged, the caused operation already succeeded.
func PublishEvent(ctx context.Context, publisher pubsub.Publisher, topic, key string, data any) {
	b, err := json.Marshal(Event{Topic: topic, Timestamp: time.Now(), Data: data})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event %s: %v", topic, err)
		return
	}

	if err := publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(key), Msg: b}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish event %s: %v", topic, err)
	}
}
