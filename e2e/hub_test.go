package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"d-hub/mock"
	"d-hub/roster"
	"d-hub/server"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type HubSuite struct {
	suite.Suite
	Config Config

	hub  *server.Hub
	addr string
}

// SetupSuite loads the environment configuration and, unless E2E_HUB_ADDR
// points elsewhere, boots an in-process hub to run against.
func (s *HubSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.HubAddr != "" {
		s.addr = s.Config.HubAddr
		return
	}

	reg := roster.New(roster.Seed{Servers: mock.Servers, Members: mock.Members})
	s.hub = server.New(slog.Default(), server.Config{
		Host:        "127.0.0.1",
		Port:        0,
		ClientID:    "e2e-client-id",
		PresenceMin: 50 * time.Millisecond,
		PresenceMax: 200 * time.Millisecond,
		ChatMin:     50 * time.Millisecond,
		ChatMax:     200 * time.Millisecond,
		ChatPhrases: mock.Phrases,
		ChatChannel: mock.DefaultChannel,
	}, reg)
	s.Require().NoError(s.hub.Start(context.Background()))
	s.addr = s.hub.Addr()
}

func (s *HubSuite) TearDownSuite() {
	if s.hub != nil {
		_ = s.hub.Stop()
	}
}

// Dial opens a websocket session with a colorized log header per step.
func (s *HubSuite) Dial(t *testing.T, name string) *websocket.Conn {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	conn, resp, err := websocket.DefaultDialer.Dial("ws://"+s.addr+"/ws", nil)
	s.Require().NoError(err, "Failed to connect to hub at "+s.addr)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s *HubSuite) readEnvelope(conn *websocket.Conn) envelope {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(10 * time.Second)))
	_, raw, err := conn.ReadMessage()
	s.Require().NoError(err)
	var env envelope
	s.Require().NoError(json.Unmarshal(raw, &env))
	return env
}

func (s *HubSuite) TestConnectAndQuery() {
	conn := s.Dial(s.T(), "connect and query")

	env := s.readEnvelope(conn)
	s.Equal("connect_ack", env.Type)

	s.Require().NoError(conn.WriteJSON(map[string]string{
		"type":     "get_user_data",
		"serverId": "232769614004748288",
	}))
	for {
		env = s.readEnvelope(conn)
		if env.Type == "user_data" {
			break
		}
	}
	var data struct {
		Server string                     `json:"server"`
		Users  map[string]json.RawMessage `json:"users"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &data))
	s.Equal("232769614004748288", data.Server)
	s.NotEmpty(data.Users)
}

// TestSimulationReachesClients waits for the background churn to produce
// at least one presence or chat broadcast.
func (s *HubSuite) TestSimulationReachesClients() {
	conn := s.Dial(s.T(), "simulation broadcast")
	s.readEnvelope(conn)

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		env := s.readEnvelope(conn)
		if env.Type == "presence_changed" || env.Type == "message_posted" {
			return
		}
	}
	s.Fail("no simulation broadcast before deadline")
}

func (s *HubSuite) TestVersionEndpoint() {
	resp, err := http.Get("http://" + s.addr + "/api/version")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	var body struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("d-hub", body.Name)
	s.NotEmpty(body.Version)
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}
