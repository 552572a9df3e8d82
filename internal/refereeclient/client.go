// Package refereeclient is an HTTP binding of internal/referee.Referee,
// talking to a remote referee service over bearer-authenticated JSON
// requests (spec §6).
package refereeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nprevot/hitman/internal/referee"
	"github.com/nprevot/hitman/pkg/board"
)

// Client is a referee.Referee backed by HTTP calls to a remote referee
// service.
type Client struct {
	baseURL string
	token   string
	httpC   *http.Client
	ctx     context.Context
}

var _ referee.Referee = (*Client)(nil)

// New creates a client targeting baseURL, authenticating every request
// with the given bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpC:   &http.Client{Timeout: 30 * time.Second},
		ctx:     context.Background(),
	}
}

// WithContext returns a shallow copy of the client that uses ctx for every
// subsequent request, for callers that want request cancellation/deadlines
// (e.g. cmd/hitmand handling a client disconnect mid-run).
func (c *Client) WithContext(ctx context.Context) *Client {
	clone := *c
	clone.ctx = ctx
	return &clone
}

func (c *Client) StartPhase1() (referee.Status, error) { return c.call("/start_phase1", nil) }
func (c *Client) Move() (referee.Status, error)        { return c.call("/move", nil) }
func (c *Client) TurnClockwise() (referee.Status, error) {
	return c.call("/turn_clockwise", nil)
}
func (c *Client) TurnAntiClockwise() (referee.Status, error) {
	return c.call("/turn_anti_clockwise", nil)
}
func (c *Client) EndPhase1() (referee.Status, error) { return c.call("/end_phase1", nil) }

func (c *Client) StartPhase2() (referee.Status, error)      { return c.call("/start_phase2", nil) }
func (c *Client) KillTarget() (referee.Status, error)        { return c.call("/kill_target", nil) }
func (c *Client) NeutralizeGuard() (referee.Status, error)   { return c.call("/neutralize_guard", nil) }
func (c *Client) NeutralizeCivil() (referee.Status, error)   { return c.call("/neutralize_civil", nil) }
func (c *Client) TakeSuit() (referee.Status, error)          { return c.call("/take_suit", nil) }
func (c *Client) TakeWeapon() (referee.Status, error)        { return c.call("/take_weapon", nil) }
func (c *Client) PutOnSuit() (referee.Status, error)         { return c.call("/put_on_suit", nil) }
func (c *Client) EndPhase2() (referee.Status, error)         { return c.call("/end_phase2", nil) }

// SendContent submits the phase-1 board reconstruction.
func (c *Client) SendContent(submission map[board.Coord]board.Content) (bool, error) {
	rows := make([]wireCell, 0, len(submission))
	for coord, content := range submission {
		rows = append(rows, wireCell{I: coord.I, J: coord.J, Content: content.String()})
	}
	body, err := json.Marshal(wireSubmission{Cells: rows})
	if err != nil {
		return false, fmt.Errorf("marshal submission: %w", err)
	}

	resp, err := c.post("/send_content", body)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result struct {
		Accepted bool `json:"accepted"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode send_content response: %w", err)
	}
	return result.Accepted, nil
}

func (c *Client) call(path string, payload any) (referee.Status, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return referee.Status{}, fmt.Errorf("marshal %s request: %w", path, err)
		}
	}

	resp, err := c.post(path, body)
	if err != nil {
		return referee.Status{}, err
	}
	defer resp.Body.Close()

	var w wireStatus
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return referee.Status{}, fmt.Errorf("decode %s response: %w", path, err)
	}
	return w.toStatus()
}

func (c *Client) post(path string, body []byte) (*http.Response, error) {
	if body == nil {
		body = []byte("{}")
	}
	req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpC.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		log.Debug().Str("path", path).Int("status", resp.StatusCode).Bytes("body", respBody).Msg("referee error response")
		return nil, fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, respBody)
	}
	return resp, nil
}
