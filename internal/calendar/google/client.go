// Package google adapts the scheduling pipeline's calendar.Client contract
// to the Google Calendar v3 REST API.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/kestrelsoft/scheduler/internal/calendar"
	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Client writes TaskEvents to a Google Calendar using an OAuth token source.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	calendarID string
	timezone   *time.Location
}

// New constructs a Client that authenticates outgoing requests with source.
func New(source oauth2.TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: &oauthTransport{base: http.DefaultTransport, source: source},
		},
		logger:     logger,
		baseURL:    defaultBaseURL,
		calendarID: "primary",
		timezone:   time.UTC,
	}
}

// WithCalendarID overrides the default "primary" calendar.
func (c *Client) WithCalendarID(id string) *Client {
	if id != "" {
		c.calendarID = id
	}
	return c
}

// WithTimezone sets the location used to anchor whole-date (all-day) events
// read back from the calendar to a concrete [00:00, 24:00) interval.
func (c *Client) WithTimezone(loc *time.Location) *Client {
	if loc != nil {
		c.timezone = loc
	}
	return c
}

type oauthTransport struct {
	base   http.RoundTripper
	source oauth2.TokenSource
}

func (t *oauthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token()
	if err != nil {
		return nil, domain.ErrCalendarUnreachable{Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return t.base.RoundTrip(req)
}

// extendedPropKey is the Google Calendar extended-property key this
// application stamps on events it creates, carrying the application tag.
const extendedPropKey = "scheduler_tag"

type eventDateTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

type event struct {
	ID                 string `json:"id,omitempty"`
	Summary            string `json:"summary"`
	Description        string `json:"description,omitempty"`
	ExtendedProperties struct {
		Private map[string]string `json:"private,omitempty"`
	} `json:"extendedProperties,omitempty"`
	Start eventDateTime `json:"start"`
	End   eventDateTime `json:"end"`
}

func toEvent(e calendar.Event) event {
	var ge event
	ge.Summary = e.Summary
	ge.Description = e.Description
	ge.Start.DateTime = e.Start.Format(time.RFC3339)
	ge.End.DateTime = e.End.Format(time.RFC3339)
	if e.Tag != "" {
		ge.ExtendedProperties.Private = map[string]string{extendedPropKey: string(e.Tag)}
	}
	return ge
}

func (e event) tag() domain.Tag {
	return domain.Tag(e.ExtendedProperties.Private[extendedPropKey])
}

// interval parses this event's start/end per §6: a whole-date value (no
// time-of-day) is treated as [00:00, 24:00) of that date in loc.
func (e event) interval(loc *time.Location) (start, end time.Time, ok bool) {
	start, ok = e.Start.parse(loc)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok = e.End.parse(loc)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (dt eventDateTime) parse(loc *time.Location) (time.Time, bool) {
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if dt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", dt.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// Insert creates a new event on the calendar and returns its assigned id.
func (c *Client) Insert(ctx context.Context, e calendar.Event) (string, error) {
	body, err := json.Marshal(toEvent(e))
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, c.calendarID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.ErrCalendarUnreachable{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rerr := responseError(resp)
		c.logger.Warn("calendar insert failed", "summary", e.Summary, "error", rerr)
		return "", rerr
	}

	var created event
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// Delete removes the event with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/calendars/%s/events/%s", c.baseURL, c.calendarID, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ErrCalendarUnreachable{Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 && resp.StatusCode != http.StatusGone {
		return responseError(resp)
	}
	return nil
}

// ListUpcoming returns events intersecting [start, end].
func (c *Client) ListUpcoming(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
	q := url.Values{
		"timeMin":      {start.Format(time.RFC3339)},
		"timeMax":      {end.Format(time.RFC3339)},
		"singleEvents": {"true"},
	}
	reqURL := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, c.calendarID, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.ErrCalendarUnreachable{Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}

	var payload struct {
		Items []event `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	out := make([]calendar.Event, 0, len(payload.Items))
	for _, it := range payload.Items {
		start, end, ok := it.interval(c.timezone)
		if !ok {
			continue
		}
		out = append(out, calendar.Event{
			ID:          it.ID,
			Summary:     it.Summary,
			Description: it.Description,
			Start:       start,
			End:         end,
			Tag:         it.tag(),
		})
	}
	return out, nil
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("google calendar request failed: status=%d body=%s", resp.StatusCode, string(body))
}
