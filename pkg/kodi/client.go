// Package kodi provides a JSON-RPC client for a running Kodi instance,
// used to load subtitles into the active player and show notifications.
package kodi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"kodi-localsubs-go/pkg/logging"
	"kodi-localsubs-go/pkg/types"
)

// ErrNoActivePlayer is returned when Kodi is not playing anything.
var ErrNoActivePlayer = errors.New("no active player")

// Doer sends HTTP requests. *httpclient.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is the error object of a failed call.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("kodi rpc error %d: %s", e.Code, e.Message)
}

// ActivePlayer is an entry of Player.GetActivePlayers.
type ActivePlayer struct {
	PlayerID int    `json:"playerid"`
	Type     string `json:"type"`
}

// Client is a Kodi JSON-RPC client.
type Client struct {
	endpoint   string
	username   string
	password   string
	httpClient Doer
	nextID     atomic.Int64
	log        *logging.Logger
}

// NewClient creates a client posting to endpoint (e.g.
// http://localhost:8080/jsonrpc). Basic auth is sent when username is set.
func NewClient(endpoint, username, password string, httpClient Doer, log *logging.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		username:   username,
		password:   password,
		httpClient: httpClient,
		log:        log.WithComponent("kodi"),
	}
}

// IsConfigured returns true if the client has an endpoint.
func (c *Client) IsConfigured() bool {
	return c.endpoint != ""
}

// Call invokes method with params and decodes the result into result, which
// may be nil.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	req := Request{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	c.log.Debug("calling kodi", "method", method, "id", req.ID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kodi returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp Response
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: %w", method, rpcResp.Error)
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// Ping checks that Kodi answers.
func (c *Client) Ping(ctx context.Context) error {
	var pong string
	if err := c.Call(ctx, "JSONRPC.Ping", nil, &pong); err != nil {
		return err
	}
	if pong != "pong" {
		return fmt.Errorf("unexpected ping reply %q", pong)
	}
	return nil
}

// ActivePlayers lists the players Kodi is currently running.
func (c *Client) ActivePlayers(ctx context.Context) ([]ActivePlayer, error) {
	var players []ActivePlayer
	if err := c.Call(ctx, "Player.GetActivePlayers", nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// videoPlayer picks the active video player, falling back to the first one.
func (c *Client) videoPlayer(ctx context.Context) (int, error) {
	players, err := c.ActivePlayers(ctx)
	if err != nil {
		return 0, err
	}
	if len(players) == 0 {
		return 0, ErrNoActivePlayer
	}
	for _, p := range players {
		if p.Type == "video" {
			return p.PlayerID, nil
		}
	}
	return players[0].PlayerID, nil
}

// ShowSubtitles switches subtitle rendering on or off.
func (c *Client) ShowSubtitles(ctx context.Context, show bool) error {
	playerID, err := c.videoPlayer(ctx)
	if err != nil {
		return err
	}

	state := "off"
	if show {
		state = "on"
	}
	return c.Call(ctx, "Player.SetSubtitle", map[string]any{
		"playerid": playerID,
		"subtitle": state,
	}, nil)
}

// SetSubtitles loads the subtitle file at path into the active player.
func (c *Client) SetSubtitles(ctx context.Context, path string) error {
	playerID, err := c.videoPlayer(ctx)
	if err != nil {
		return err
	}

	if err := c.Call(ctx, "Player.AddSubtitle", map[string]any{
		"playerid": playerID,
		"subtitle": path,
	}, nil); err != nil {
		return err
	}

	c.log.Info("subtitle loaded", "player", playerID, "path", path)
	return nil
}

// Notify shows a GUI notification.
func (c *Client) Notify(ctx context.Context, n types.Notification) error {
	image := string(n.Level)
	if image == "" {
		image = string(types.NotificationInfo)
	}

	params := map[string]any{
		"title":   n.Title,
		"message": n.Message,
		"image":   image,
	}
	if n.Display > 0 {
		params["displaytime"] = n.Display.Milliseconds()
	}
	return c.Call(ctx, "GUI.ShowNotification", params, nil)
}
