package server

import (
	"log/slog"
	"testing"

	"d-hub/domain/event"
	"d-hub/hooks"
	"d-hub/mock"
	"d-hub/mocks"
	"d-hub/roster"
	"d-hub/runtime"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestSession(t *testing.T) *runtime.Session {
	t.Helper()
	ctrl := gomock.NewController(t)
	return runtime.NewSession(mocks.NewMockEventSink(ctrl), "10.0.0.1:1")
}

func newTestDispatcher() *Dispatcher {
	reg := roster.New(roster.Seed{Servers: mock.Servers, Members: mock.Members})
	return NewDispatcher(slog.Default(), hooks.NewRegistry(reg))
}

func TestDispatcher_DropsUnroutableFrames(t *testing.T) {
	d := newTestDispatcher()
	sess := newTestSession(t)

	cases := map[string][]byte{
		"malformed json": []byte("{oops"),
		"missing type":   []byte(`{"serverId":"232769614004748288"}`),
		"unknown type":   []byte(`{"type":"telnet_login"}`),
		"empty frame":    []byte(``),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			reply, ok := d.Dispatch(sess, raw)
			require.False(t, ok)
			require.Nil(t, reply)
		})
	}
}

func TestDispatcher_GetUserDataIgnoresExtraFields(t *testing.T) {
	req := require.New(t)
	d := newTestDispatcher()

	reply, ok := d.Dispatch(newTestSession(t),
		[]byte(`{"type":"get_user_data","serverId":"482241773318701056","nonce":17}`))

	req.True(ok)
	data, isUserData := reply.(event.UserData)
	req.True(isUserData)
	req.Equal("482241773318701056", data.Server)
	req.Len(data.Users, 1)
}

func TestDispatcher_AuthenticateDefaultDeny(t *testing.T) {
	req := require.New(t)
	d := newTestDispatcher()
	sess := newTestSession(t)

	reply, ok := d.Dispatch(sess,
		[]byte(`{"type":"authenticate","serverId":"123456789012345678","token":"not-a-jwt"}`))

	req.True(ok)
	res, isResult := reply.(event.AuthResult)
	req.True(isResult)
	req.False(res.OK)
	req.False(sess.Authorized("123456789012345678"))
}
