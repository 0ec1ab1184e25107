package sessionize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eventattendance/internal/domain"
)

const (
	defaultBaseURL = "https://sessionize.com/api/v2"
	// Sessionize returns local wall-clock times without an offset.
	timeLayout = "2006-01-02T15:04:05"
)

type sessionizeHTTPFetcher struct {
	client   *http.Client
	baseURL  string
	location *time.Location
}

// Option configures the fetcher.
type Option func(*sessionizeHTTPFetcher)

// WithBaseURL points the fetcher at another API root (used by tests).
func WithBaseURL(u string) Option {
	return func(f *sessionizeHTTPFetcher) { f.baseURL = strings.TrimRight(u, "/") }
}

// WithLocation sets the zone the schedule's wall-clock times are interpreted in. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(f *sessionizeHTTPFetcher) { f.location = loc }
}

// NewHTTPFetcher returns a fetcher that calls the Sessionize API.
func NewHTTPFetcher(client *http.Client, opts ...Option) domain.ScheduleFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &sessionizeHTTPFetcher{client: client, baseURL: defaultBaseURL, location: time.UTC}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type wireSession struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	StartsAt         string `json:"startsAt"`
	EndsAt           string `json:"endsAt"`
	RoomID           int    `json:"roomId"`
	IsServiceSession bool   `json:"isServiceSession"`
}

type wireResponse struct {
	Sessions []wireSession         `json:"sessions"`
	Rooms    []domain.ScheduleRoom `json:"rooms"`
}

func (f *sessionizeHTTPFetcher) Fetch(ctx context.Context, sessionizeID string) (domain.ScheduleResponse, error) {
	url := fmt.Sprintf("%s/%s/view/All", f.baseURL, sessionizeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ScheduleResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return domain.ScheduleResponse{}, fmt.Errorf("failed to fetch from sessionize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ScheduleResponse{}, fmt.Errorf("sessionize api returned status: %d", resp.StatusCode)
	}

	var data wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.ScheduleResponse{}, fmt.Errorf("failed to decode sessionize response: %w", err)
	}

	out := domain.ScheduleResponse{Rooms: data.Rooms, Sessions: make([]domain.ScheduleSession, 0, len(data.Sessions))}
	for _, s := range data.Sessions {
		starts, err := f.parseTime(s.StartsAt)
		if err != nil {
			return domain.ScheduleResponse{}, fmt.Errorf("session %s startsAt: %w", s.ID, err)
		}
		ends, err := f.parseTime(s.EndsAt)
		if err != nil {
			return domain.ScheduleResponse{}, fmt.Errorf("session %s endsAt: %w", s.ID, err)
		}
		out.Sessions = append(out.Sessions, domain.ScheduleSession{
			ID:               s.ID,
			Title:            s.Title,
			Description:      s.Description,
			StartsAt:         starts,
			EndsAt:           ends,
			RoomID:           s.RoomID,
			IsServiceSession: s.IsServiceSession,
		})
	}
	return out, nil
}

// parseTime accepts both offset-less and RFC 3339 timestamps. Empty means unscheduled.
func (f *sessionizeHTTPFetcher) parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(timeLayout, s, f.location)
}
