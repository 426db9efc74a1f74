package bridge

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletwatch/xrpl-wallet-events/internal/emitter"
)

type mockPublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (m *mockPublisher) Publish(subject string, data []byte) error {
	m.subjects = append(m.subjects, subject)
	m.payloads = append(m.payloads, data)
	return m.err
}

func TestBridge_TapPublishesEvent(t *testing.T) {
	pub := &mockPublisher{}
	b := New(pub, "wallet.events")

	b.Tap()("rA", emitter.PaymentReceived{From: "rB", Amount: "5", Timestamp: 1, Hash: "H"})

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, "wallet.events.rA.payment-received", pub.subjects[0])

	var msg struct {
		Address   string          `json:"address"`
		Event     string          `json:"event"`
		Data      json.RawMessage `json:"data"`
		Timestamp int64           `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, "rA", msg.Address)
	assert.Equal(t, "payment-received", msg.Event)
	assert.JSONEq(t, `{"from":"rB","amount":"5","timestamp":1,"hash":"H"}`, string(msg.Data))
	assert.NotZero(t, msg.Timestamp)
}

func TestBridge_PublishErrorDoesNotPanic(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats down")}
	b := New(pub, "wallet.events")

	b.Tap()("rA", emitter.TokensRefreshed{Hash: "H"})
	assert.Len(t, pub.subjects, 1)
}
