// Package bridge mirrors locally dispatched wallet events onto NATS so
// headless consumers can follow a wallet without linking the engine.
package bridge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/walletwatch/xrpl-wallet-events/internal/emitter"
	"github.com/walletwatch/xrpl-wallet-events/pkg/common/logger"
)

// Publisher is the piece of a NATS connection the bridge uses.
// *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Bridge struct {
	pub    Publisher
	prefix string
}

func New(pub Publisher, subjectPrefix string) *Bridge {
	return &Bridge{pub: pub, prefix: subjectPrefix}
}

// message is the wire form of one republished event.
type message struct {
	Address   string        `json:"address"`
	Event     emitter.Kind  `json:"event"`
	Data      emitter.Event `json:"data"`
	Timestamp int64         `json:"timestamp"`
}

// Subject returns the subject an event for address is published on.
func (b *Bridge) Subject(address string, kind emitter.Kind) string {
	return fmt.Sprintf("%s.%s.%s", b.prefix, address, kind)
}

// Tap returns the registry tap that publishes every emitted event.
// Publish failures are logged, not propagated: a broken bridge must not
// break local delivery.
func (b *Bridge) Tap() func(address string, evt emitter.Event) {
	return func(address string, evt emitter.Event) {
		data, err := json.Marshal(message{
			Address:   address,
			Event:     evt.Kind(),
			Data:      evt,
			Timestamp: time.Now().UTC().Unix(),
		})
		if err != nil {
			logger.Error("marshal wallet event for NATS", "err", err)
			return
		}
		if err := b.pub.Publish(b.Subject(address, evt.Kind()), data); err != nil {
			logger.Error("publish wallet event to NATS",
				"subject", b.Subject(address, evt.Kind()), "err", err)
		}
	}
}
