package runtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	mu       sync.Mutex
	payloads [][]byte
	fail     error
	closed   bool
}

func (f *fakeSink) Deliver(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeSink) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSink) delivered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func TestSessionSet_AddRemoveSnapshot(t *testing.T) {
	req := require.New(t)
	set := NewSessionSet()
	s1 := NewSession(&fakeSink{}, "10.0.0.1:1")
	s2 := NewSession(&fakeSink{}, "10.0.0.2:2")

	set.Add(s1)
	set.Add(s2)
	req.Equal(2, set.Len())
	req.ElementsMatch([]*Session{s1, s2}, set.Snapshot())

	// Remove reports presence exactly once
	req.True(set.Remove(s1))
	req.False(set.Remove(s1))
	req.Equal(1, set.Len())
}

func TestSession_AuthFlagsAreServerScoped(t *testing.T) {
	req := require.New(t)
	s := NewSession(&fakeSink{}, "10.0.0.1:1")

	req.False(s.Authorized("123456789012345678"))

	s.Authorize("123456789012345678")

	req.True(s.Authorized("123456789012345678"))
	// And only for that server
	req.False(s.Authorized("232769614004748288"))
}

func TestSnapshot_IsPointInTimeCopy(t *testing.T) {
	req := require.New(t)
	set := NewSessionSet()
	s1 := NewSession(&fakeSink{}, "10.0.0.1:1")
	set.Add(s1)

	snap := set.Snapshot()
	set.Remove(s1)

	// The snapshot is unaffected by the later removal
	req.Len(snap, 1)
	req.Equal(0, set.Len())
}
