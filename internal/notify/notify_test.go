package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newToken(err error, complete bool) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	if complete {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakeClient struct {
	token        *fakeToken
	topic        string
	qos          byte
	retained     bool
	payload      []byte
	disconnected bool
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.topic, f.qos, f.retained = topic, qos, retained
	f.payload = payload.([]byte)
	return f.token
}

func (f *fakeClient) Disconnect(uint) { f.disconnected = true }

var (
	iftar  = fasting.Target{At: time.Date(2026, 2, 20, 18, 42, 0, 0, time.UTC), Kind: fasting.Iftar}
	suhoor = fasting.Target{At: time.Date(2026, 2, 21, 5, 6, 0, 0, time.UTC), Kind: fasting.Suhoor}
)

func TestEncode(t *testing.T) {
	body, err := Encode(Event{Reached: iftar, Next: &suhoor})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"event": "iftar",
		"label": "Iftar",
		"at": "2026-02-20T18:42:00Z",
		"next": {"event": "suhoor", "at": "2026-02-21T05:06:00Z"}
	}`, string(body))
}

func TestEncode_NoNext(t *testing.T) {
	body, err := Encode(Event{Reached: suhoor})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "suhoor", got["event"])
	assert.Equal(t, "Suhoor ends", got["label"])
	assert.NotContains(t, got, "next")
}

func TestMQTT_Notify(t *testing.T) {
	fc := &fakeClient{token: newToken(nil, true)}
	m := newMQTT(fc, DefaultTopic, zerolog.Nop())

	require.NoError(t, m.Notify(context.Background(), Event{Reached: iftar, Next: &suhoor}))

	assert.Equal(t, "ramadan-compass/events", fc.topic)
	assert.Equal(t, byte(1), fc.qos)
	assert.False(t, fc.retained)
	assert.Contains(t, string(fc.payload), `"event":"iftar"`)
}

func TestMQTT_NotifyError(t *testing.T) {
	fc := &fakeClient{token: newToken(errors.New("not connected"), true)}
	m := newMQTT(fc, "custom/topic", zerolog.Nop())

	err := m.Notify(context.Background(), Event{Reached: iftar})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom/topic")
	assert.Contains(t, err.Error(), "not connected")
}

func TestMQTT_NotifyContextCancelled(t *testing.T) {
	fc := &fakeClient{token: newToken(nil, false)}
	m := newMQTT(fc, DefaultTopic, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Notify(ctx, Event{Reached: iftar})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMQTT_Close(t *testing.T) {
	fc := &fakeClient{}
	newMQTT(fc, DefaultTopic, zerolog.Nop()).Close()
	assert.True(t, fc.disconnected)
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	assert.NoError(t, n.Notify(context.Background(), Event{Reached: iftar}))
}
