package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/cryptomatch/internal/model"
)

// ScoreUpdate is the body of a score write.
type ScoreUpdate struct {
	Score   int     `json:"score"`
	XPDelta float64 `json:"xpDelta"`
}

// IdentityUpdate is the body of an identity write.
type IdentityUpdate struct {
	DisplayIdentity string `json:"displayIdentity"`
}

// APIError is the JSON error body returned by the stats API.
type APIError struct {
	Error string `json:"error"`
}

// Remote talks to a stats API served by `cryptomatch serve`.
type Remote struct {
	base   *url.URL
	client *http.Client
}

// NewRemote builds a client for baseURL. A nil client gets a 10s timeout.
func NewRemote(baseURL string, client *http.Client) (*Remote, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse stats url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("stats url must be http or https: %q", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Remote{base: u, client: client}, nil
}

func (r *Remote) GetStats(ctx context.Context, player string) (model.PlayerStats, error) {
	var stats model.PlayerStats
	err := r.do(ctx, http.MethodGet, "/api/players/"+url.PathEscape(player), nil, &stats)
	return stats, err
}

func (r *Remote) UpdateStats(ctx context.Context, player string, score int, xpDelta float64) (model.PlayerStats, error) {
	var stats model.PlayerStats
	body := ScoreUpdate{Score: score, XPDelta: xpDelta}
	err := r.do(ctx, http.MethodPost, "/api/players/"+url.PathEscape(player)+"/score", body, &stats)
	return stats, err
}

func (r *Remote) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	path := "/api/leaderboard?limit=" + strconv.Itoa(ClampLimit(limit))
	err := r.do(ctx, http.MethodGet, path, nil, &entries)
	return entries, err
}

func (r *Remote) SetIdentity(ctx context.Context, player, display string) error {
	body := IdentityUpdate{DisplayIdentity: display}
	return r.do(ctx, http.MethodPost, "/api/players/"+url.PathEscape(player)+"/identity", body, nil)
}

func (r *Remote) MarkNFTMinted(ctx context.Context, player string) error {
	return r.do(ctx, http.MethodPost, "/api/players/"+url.PathEscape(player)+"/nft", nil, nil)
}

// CountQualified reads the airdrop endpoint, which counts against QualifyScore.
func (r *Remote) CountQualified(ctx context.Context, minScore int) (int, error) {
	if minScore != QualifyScore {
		return 0, fmt.Errorf("remote stats only count players at score %d", QualifyScore)
	}
	var status AirdropStatus
	if err := r.do(ctx, http.MethodGet, "/api/airdrop", nil, &status); err != nil {
		return 0, err
	}
	return status.Qualified, nil
}

func (r *Remote) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.base.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var apiErr APIError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
		apiErr.Error = strings.TrimSpace(string(data))
	}
	var sentinel error
	switch resp.StatusCode {
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrNotEligible
	case http.StatusBadRequest:
		sentinel = ErrInvalidWallet
		if apiErr.Error == ErrInvalidUpdate.Error() {
			sentinel = ErrInvalidUpdate
		}
	default:
		sentinel = errors.New(http.StatusText(resp.StatusCode))
	}
	if apiErr.Error == "" || apiErr.Error == sentinel.Error() {
		return fmt.Errorf("stats api: %w", sentinel)
	}
	return fmt.Errorf("stats api: %w: %s", sentinel, apiErr.Error)
}
