package nats

import (
	"encoding/json"

	"code.cloudfoundry.org/lager"

	"github.com/guildhall/auction/auctiontypes"
)

// Publisher is the one method of *nats.Conn the sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// MessageSink publishes AuctionMessages as JSON onto per-channel subjects.
// The chat front end subscribes and relays: public subjects go to the whole
// channel, hidden subjects only to the invoking user.
type MessageSink struct {
	publisher Publisher
	logger    lager.Logger
}

func NewMessageSink(publisher Publisher, logger lager.Logger) *MessageSink {
	return &MessageSink{
		publisher: publisher,
		logger:    logger.Session("nats-message-sink"),
	}
}

func (s *MessageSink) Deliver(message auctiontypes.AuctionMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		s.logger.Error("failed-to-marshal-message", err)
		return err
	}

	subject := SubjectFor(message)
	err = s.publisher.Publish(subject, payload)
	if err != nil {
		s.logger.Error("failed-to-publish", err, lager.Data{"subject": subject})
		return err
	}

	return nil
}
