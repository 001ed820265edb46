package webapi_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MazeXD/cuwo/webapi"
	"github.com/MazeXD/cuwo/webapitest"
)

const testKey = "demo"

var xharon = webapitest.Player{
	Name:  "Xharon",
	X:     100,
	Y:     200,
	Z:     300,
	Class: 2,
	Level: 12,
	Equipment: []webapitest.Item{
		{Type: 3, Rarity: 2, Level: 10, Upgrades: []webapi.ItemUpgrade{{X: 1, Y: 2, Z: 3, Material: 11, Level: 1}}},
		{Type: 4, Rarity: 1, Level: 8},
	},
	Skills: [9]int{1, 0, 2, 0, 3, 0, 4, 5, 6},
}

func newTestClient(t *testing.T, players ...webapitest.Player) (*webapi.Client, *webapitest.Server) {
	t.Helper()

	server := webapitest.NewServer(testKey, players...)
	t.Cleanup(server.Close)

	client, err := webapi.NewClient(testKey, server.Host(), zerolog.Nop(), webapi.WithPort(server.Port()))
	require.NoError(t, err)

	return client, server
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		key     string
		host    string
		opts    []webapi.Option
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			key:  "demo",
			host: "127.0.0.1",
		},
		{
			name:    "missing key",
			host:    "127.0.0.1",
			wantErr: true,
			errMsg:  "shared key is required",
		},
		{
			name:    "missing host",
			key:     "demo",
			wantErr: true,
			errMsg:  "host is required",
		},
		{
			name:    "port out of range",
			key:     "demo",
			host:    "127.0.0.1",
			opts:    []webapi.Option{webapi.WithPort(70000)},
			wantErr: true,
			errMsg:  "port 70000 out of range",
		},
		{
			name:    "unsupported scheme",
			key:     "demo",
			host:    "127.0.0.1",
			opts:    []webapi.Option{webapi.WithScheme("ftp")},
			wantErr: true,
			errMsg:  "unsupported scheme",
		},
		{
			name:    "unavailable HTTP client",
			key:     "demo",
			host:    "127.0.0.1",
			opts:    []webapi.Option{webapi.WithHTTPClient(nil)},
			wantErr: true,
			errMsg:  "HTTP client is unavailable",
		},
		{
			name: "custom HTTP client",
			key:  "demo",
			host: "127.0.0.1",
			opts: []webapi.Option{webapi.WithHTTPClient(&http.Client{Timeout: time.Second})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := webapi.NewClient(tt.key, tt.host, logger, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, webapi.ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestVersion(t *testing.T) {
	client, server := newTestClient(t)

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, webapitest.Version, version)

	req := server.LastRequest()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/", req.Path)
	assert.NotContains(t, req.Query, "key")
	assert.Equal(t, webapi.DefaultUserAgent, req.Header.Get("User-Agent"))

	_, err = uuid.Parse(req.Header.Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestStatus(t *testing.T) {
	client, server := newTestClient(t,
		webapitest.Player{Name: "Zed"},
		webapitest.Player{Name: "Amy"},
		webapitest.Player{Name: "Bob"},
	)

	status, err := client.Status(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Zed", "Amy", "Bob"}, status.Players)
	assert.Equal(t, 4, status.PlayerLimit)
	assert.Equal(t, int64(26879), status.Seed)
	assert.Equal(t, testKey, server.LastRequest().Query.Get("key"))
}

func TestStatusEmptyServer(t *testing.T) {
	client, _ := newTestClient(t)

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, status.Players)
	assert.Empty(t, status.Players)
}

func TestUnauthorized(t *testing.T) {
	server := webapitest.NewServer("right")
	defer server.Close()

	client, err := webapi.NewClient("wrong", server.Host(), zerolog.Nop(), webapi.WithPort(server.Port()))
	require.NoError(t, err)

	_, err = client.Status(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, webapi.ErrUnauthorized)

	var apiErr *webapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, webapi.CodeUnauthorized, apiErr.Code)
	assert.Equal(t, "status", apiErr.Endpoint)

	// the version endpoint does not need the key
	_, err = client.Version(context.Background())
	assert.NoError(t, err)
}

func TestPlayer(t *testing.T) {
	client, server := newTestClient(t, xharon)
	ctx := context.Background()

	t.Run("include parameter", func(t *testing.T) {
		tests := []struct {
			name     string
			include  webapi.Include
			expected string
		}{
			{"equipment only", webapi.IncludeEquipment, "equipment"},
			{"skills only", webapi.IncludeSkills, "skills"},
			{"both", webapi.IncludeEquipment | webapi.IncludeSkills, "equipment,skills"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := client.Player(ctx, "Xharon", tt.include)
				require.NoError(t, err)

				req := server.LastRequest()
				assert.Equal(t, "/player/Xharon", req.Path)
				assert.Equal(t, testKey, req.Query.Get("key"))
				assert.Equal(t, []string{tt.expected}, req.Query["include"])
			})
		}

		_, err := client.Player(ctx, "Xharon", 0)
		require.NoError(t, err)
		assert.NotContains(t, server.LastRequest().Query, "include")
	})

	t.Run("basic details", func(t *testing.T) {
		player, err := client.Player(ctx, "xharon", 0)
		require.NoError(t, err)

		assert.Equal(t, "Xharon", player.Name)
		assert.Equal(t, webapi.Position{X: 100, Y: 200, Z: 300}, player.Position)
		assert.Equal(t, "2", player.ClassType)
		assert.Equal(t, 12, player.Level)
		assert.Equal(t, float64(webapi.PowerLevel(12)), player.PowerLevel)
		assert.False(t, player.HasEquipment)
		assert.Nil(t, player.Equipment)
		assert.False(t, player.HasSkills)
		assert.Nil(t, player.Skills)
	})

	t.Run("with equipment and skills", func(t *testing.T) {
		player, err := client.Player(ctx, "Xharon", webapi.IncludeAll)
		require.NoError(t, err)

		require.True(t, player.HasEquipment)
		require.Len(t, player.Equipment, 2)
		assert.Equal(t, 3, player.Equipment[0].Type)
		assert.Equal(t, []webapi.ItemUpgrade{{X: 1, Y: 2, Z: 3, Material: 11, Level: 1}}, player.Equipment[0].Upgrades)
		assert.Equal(t, 4, player.Equipment[1].Type)
		assert.Empty(t, player.Equipment[1].Upgrades)

		require.True(t, player.HasSkills)
		assert.Equal(t, 1, player.Skills.PetMaster)
		assert.Equal(t, 6, player.Skills.ClassSkill3)
	})

	t.Run("unknown player", func(t *testing.T) {
		player, err := client.Player(ctx, "nobody", webapi.IncludeAll)
		require.Error(t, err)
		assert.Nil(t, player)
		assert.ErrorIs(t, err, webapi.ErrInvalidPlayer)
		assert.Equal(t, webapi.KindInvalidPlayer, webapi.KindOf(err))
	})

	t.Run("escapes name", func(t *testing.T) {
		_, err := client.Player(ctx, "Mr Smith", 0)
		assert.ErrorIs(t, err, webapi.ErrInvalidPlayer)
		assert.Equal(t, "/player/Mr Smith", server.LastRequest().Path)
	})
}

func TestPlayerMalformedResponse(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()

	server.Override("/player/ghost", http.StatusOK, `{"name": "ghost"}`)
	_, err := client.Player(ctx, "ghost", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, webapi.ErrMalformedResponse)

	var fieldErr *webapi.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "player", fieldErr.Field)

	server.Override("/player/half", http.StatusOK, `{"player": {"name": "half"}}`)
	_, err = client.Player(ctx, "half", 0)
	assert.ErrorIs(t, err, webapi.ErrMalformedResponse)
}

func TestErrorMarkerWinsOverPayload(t *testing.T) {
	client, server := newTestClient(t)

	server.Override("/player/bob", http.StatusOK, `{"error": -3, "player": {"name": "bob"}}`)
	player, err := client.Player(context.Background(), "bob", 0)
	assert.Nil(t, player)
	assert.ErrorIs(t, err, webapi.ErrInvalidPlayer)
}

func TestKick(t *testing.T) {
	client, server := newTestClient(t, xharon, webapitest.Player{Name: "Amy"})
	ctx := context.Background()

	ok, err := client.Kick(ctx, "Xharon")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Xharon"}, server.Kicked())
	assert.Equal(t, "/kick/Xharon", server.LastRequest().Path)

	ok, err = client.Kick(ctx, "Xharon")
	assert.False(t, ok)
	assert.ErrorIs(t, err, webapi.ErrInvalidPlayer)
}

func TestKickWithoutSuccessField(t *testing.T) {
	client, server := newTestClient(t)

	server.Override("/kick/bob", http.StatusOK, `{"foo": 1}`)
	ok, err := client.Kick(context.Background(), "bob")
	assert.False(t, ok)
	assert.ErrorIs(t, err, webapi.ErrMalformedResponse)
}

func TestSuccessMarkerPresence(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    bool
		wantErr error
	}{
		{name: "null success", body: `{"success": null}`, want: true},
		{name: "false success", body: `{"success": false}`, want: true},
		{name: "null error with success", body: `{"error": null, "success": 1}`, wantErr: webapi.ErrMalformedResponse},
		{name: "error with success", body: `{"error": -3, "success": 1}`, wantErr: webapi.ErrInvalidPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(t)
			server.Override("/kick/bob", http.StatusOK, tt.body)

			ok, err := client.Kick(context.Background(), "bob")
			if tt.wantErr != nil {
				assert.False(t, ok)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestNullErrorCode(t *testing.T) {
	client, server := newTestClient(t)

	server.Override("/status", http.StatusOK, `{"error": null, "players": [], "player-limit": 4, "seed": 1}`)
	status, err := client.Status(context.Background())
	assert.Nil(t, status)
	require.ErrorIs(t, err, webapi.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "null error code")
}

func TestTime(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()

	value, err := client.Time(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12:00", value)

	ok, err := client.SetTime(ctx, "16:05")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/time/16:05", server.LastRequest().Path)
	assert.Equal(t, "16:05", server.Clock())

	value, err = client.Time(ctx)
	require.NoError(t, err)
	assert.Equal(t, "16:05", value)
}

func TestSetTimeRejectsLocally(t *testing.T) {
	client, server := newTestClient(t)

	for _, value := range []string{"25:61", "abc", "1605", ""} {
		ok, err := client.SetTime(context.Background(), value)
		assert.False(t, ok)
		assert.ErrorIs(t, err, webapi.ErrInvalidTime, value)
	}

	assert.Empty(t, server.Requests(), "no request may reach the server")
}

func TestSetTimeRejectedByServer(t *testing.T) {
	client, server := newTestClient(t)

	server.Override("/time/12:30", http.StatusOK, `{"error": -4}`)
	ok, err := client.SetTime(context.Background(), "12:30")
	assert.False(t, ok)
	assert.ErrorIs(t, err, webapi.ErrInvalidTime)
}

func TestMessage(t *testing.T) {
	client, server := newTestClient(t, xharon)
	ctx := context.Background()

	t.Run("broadcast", func(t *testing.T) {
		ok, err := client.Message(ctx, "Hello server - API", "")
		require.NoError(t, err)
		assert.True(t, ok)

		req := server.LastRequest()
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/message/", req.Path)
		assert.Equal(t, "Hello server - API", req.Body)
		assert.Equal(t, testKey, req.Query.Get("key"))
	})

	t.Run("to player", func(t *testing.T) {
		ok, err := client.Message(ctx, "Hey. How are you?", "Xharon")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "/message/Xharon/", server.LastRequest().Path)
	})

	t.Run("unknown receiver", func(t *testing.T) {
		ok, err := client.Message(ctx, "hello?", "nobody")
		assert.False(t, ok)
		assert.ErrorIs(t, err, webapi.ErrInvalidPlayer)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := client.Message(ctx, "", "")
		assert.ErrorIs(t, err, webapi.ErrInvalidMethod)
	})

	assert.Equal(t, []webapitest.Message{
		{Text: "Hello server - API"},
		{Receiver: "Xharon", Text: "Hey. How are you?"},
	}, server.Messages())
}

func TestInvalidResource(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Player(context.Background(), "", 0)
	assert.ErrorIs(t, err, webapi.ErrInvalidResource)
}

func TestUnknownServerError(t *testing.T) {
	client, server := newTestClient(t)

	server.Override("/status", http.StatusOK, `{"error": -42}`)
	_, err := client.Status(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, webapi.ErrUnknownServerError)

	var apiErr *webapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, -42, apiErr.Code)
}

func TestNonIntegerErrorCode(t *testing.T) {
	client, server := newTestClient(t)

	server.Override("/status", http.StatusOK, `{"error": "nope"}`)
	_, err := client.Status(context.Background())
	assert.ErrorIs(t, err, webapi.ErrMalformedResponse)
}

func TestInvalidJSON(t *testing.T) {
	client, server := newTestClient(t)

	server.Override("/time", http.StatusOK, `<html>`)
	_, err := client.Time(context.Background())
	assert.ErrorIs(t, err, webapi.ErrMalformedResponse)

	server.Override("/time", http.StatusOK, `["12:00"]`)
	_, err = client.Time(context.Background())
	assert.ErrorIs(t, err, webapi.ErrMalformedResponse)
}

func TestHTTPStatusFailure(t *testing.T) {
	client, server := newTestClient(t)

	server.Override("/status", http.StatusBadGateway, `bad gateway`)
	_, err := client.Status(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, webapi.ErrTransport)

	var apiErr *webapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestTransportFailure(t *testing.T) {
	server := webapitest.NewServer(testKey)
	host, port := server.Host(), server.Port()
	server.Close()

	client, err := webapi.NewClient(testKey, host, zerolog.Nop(), webapi.WithPort(port), webapi.WithTimeout(2*time.Second))
	require.NoError(t, err)

	_, err = client.Version(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, webapi.ErrTransport)
	assert.NotErrorIs(t, err, webapi.ErrUnauthorized)
	assert.Equal(t, webapi.KindTransport, webapi.KindOf(err))
}

func TestCheckVersion(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()

	v, err := client.CheckVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.0.3", v.String())
	assert.NoError(t, client.TestConnection(ctx))

	server.SetVersion("1.2.0")
	v, err = client.CheckVersion(ctx)
	assert.ErrorIs(t, err, webapi.ErrUnsupportedVersion)
	assert.Equal(t, "1.2.0", v.String())

	server.SetVersion("banana")
	_, err = client.CheckVersion(ctx)
	assert.ErrorIs(t, err, webapi.ErrMalformedResponse)
}
