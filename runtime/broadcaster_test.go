package runtime

import (
	"encoding/json"
	"log/slog"
	"testing"

	"d-hub/domain/event"
	"d-hub/errors"

	"github.com/stretchr/testify/require"
)

func TestBroadcaster_DeliversToEverySession(t *testing.T) {
	req := require.New(t)
	set := NewSessionSet()
	sinks := []*fakeSink{{}, {}, {}}
	for i, sink := range sinks {
		set.Add(NewSession(sink, "10.0.0.1:"+string(rune('1'+i))))
	}
	b := NewBroadcaster(slog.Default(), set)

	b.Send(event.MessagePosted{Server: "232769614004748288", UID: "u", Message: "hello", Channel: "527964146659229701"})

	for _, sink := range sinks {
		req.Equal(1, sink.delivered())
	}
}

func TestBroadcaster_PayloadIsEnvelopedJSON(t *testing.T) {
	req := require.New(t)
	set := NewSessionSet()
	sink := &fakeSink{}
	set.Add(NewSession(sink, "10.0.0.1:1"))
	b := NewBroadcaster(slog.Default(), set)

	b.Send(event.PresenceChanged{Server: "232769614004748288", UID: "u1", Status: "offline", Removed: true})

	var wire struct {
		Type string `json:"type"`
		Data struct {
			Server  string `json:"server"`
			UID     string `json:"uid"`
			Status  string `json:"status"`
			Removed bool   `json:"removed"`
		} `json:"data"`
	}
	req.NoError(json.Unmarshal(sink.payloads[0], &wire))
	req.Equal("presence_changed", wire.Type)
	req.Equal("u1", wire.Data.UID)
	req.Equal("offline", wire.Data.Status)
	req.True(wire.Data.Removed)
}

func TestBroadcaster_PartialFailureIsolation(t *testing.T) {
	req := require.New(t)
	set := NewSessionSet()
	healthy := &fakeSink{}
	broken := &fakeSink{fail: errors.ErrSlowConsumer}
	set.Add(NewSession(healthy, "10.0.0.1:1"))
	brokenSession := NewSession(broken, "10.0.0.2:2")
	set.Add(brokenSession)
	b := NewBroadcaster(slog.Default(), set)

	b.Send(event.ClientIDUpdated{Server: "232769614004748288", ClientID: "abc"})

	// The healthy session still got the event
	req.Equal(1, healthy.delivered())
	// The failed one was evicted and closed after the pass
	req.Equal(1, set.Len())
	req.True(broken.closed)

	// A second broadcast does not touch the evicted session again
	b.Send(event.ClientIDUpdated{Server: "232769614004748288", ClientID: "def"})
	req.Equal(2, healthy.delivered())
}
