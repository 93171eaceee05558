// Package caldav adapts the scheduling pipeline's calendar.Client contract
// to a generic CalDAV server (Apple Calendar, Fastmail, Nextcloud, ...).
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	"github.com/kestrelsoft/scheduler/internal/calendar"
	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
)

// propTag is the custom iCal property this application stamps on events it
// creates, carrying the application tag value.
const propTag = "X-SCHEDULER-TAG"

// Client writes TaskEvents to a CalDAV calendar over basic auth.
type Client struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
	logger       *slog.Logger
}

// New constructs a Client authenticating with username/password against the
// CalDAV server at baseURL.
func New(baseURL, username, password string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: baseURL, username: username, password: password, logger: logger}
}

// WithCalendarPath pins the client to a specific calendar collection,
// skipping principal/home-set discovery.
func (c *Client) WithCalendarPath(path string) *Client {
	c.calendarPath = path
	return c
}

func (c *Client) rawClient() (*caldav.Client, error) {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &basicAuthTransport{
			username: c.username,
			password: c.password,
			base:     http.DefaultTransport,
		},
	}
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, c.username, c.password), c.baseURL)
	if err != nil {
		return nil, domain.ErrCalendarUnreachable{Cause: err}
	}
	return client, nil
}

func (c *Client) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if c.calendarPath != "" {
		return c.calendarPath, nil
	}
	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", domain.ErrCalendarUnreachable{Cause: err}
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", domain.ErrCalendarUnreachable{Cause: err}
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", domain.ErrCalendarUnreachable{Cause: err}
	}
	if len(cals) == 0 {
		return "", domain.ErrCalendarUnreachable{Cause: fmt.Errorf("no calendars found")}
	}
	return cals[0].Path, nil
}

// Insert creates a new event on the calendar and returns its object path,
// used as the event's id.
func (c *Client) Insert(ctx context.Context, e calendar.Event) (string, error) {
	client, err := c.rawClient()
	if err != nil {
		return "", err
	}
	calPath, err := c.findCalendarPath(ctx, client)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	eventPath := fmt.Sprintf("%s%s.ics", calPath, id)
	if _, err := client.PutCalendarObject(ctx, eventPath, toICalendar(id, e)); err != nil {
		c.logger.Warn("caldav insert failed", "event_path", eventPath, "error", err)
		return "", fmt.Errorf("caldav insert failed: %w", err)
	}
	return eventPath, nil
}

// Delete removes the event object at the given path.
func (c *Client) Delete(ctx context.Context, id string) error {
	client, err := c.rawClient()
	if err != nil {
		return err
	}
	return client.RemoveAll(ctx, id)
}

// ListUpcoming returns events intersecting [start, end].
func (c *Client) ListUpcoming(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
	client, err := c.rawClient()
	if err != nil {
		return nil, err
	}
	calPath, err := c.findCalendarPath(ctx, client)
	if err != nil {
		return nil, err
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Props: []string{"VERSION"},
			Comps: []caldav.CalendarCompRequest{
				{
					Name:  "VEVENT",
					Props: []string{"SUMMARY", "DTSTART", "DTEND", "UID", "DESCRIPTION", propTag},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name:  "VCALENDAR",
			Comps: []caldav.CompFilter{{Name: "VEVENT", Start: start, End: end}},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, domain.ErrCalendarUnreachable{Cause: err}
	}

	events := make([]calendar.Event, 0, len(objects))
	for _, obj := range objects {
		if e, ok := fromCalendarObject(&obj); ok {
			events = append(events, e)
		}
	}
	return events, nil
}

func toICalendar(id string, e calendar.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//kestrelsoft-scheduler//EN")

	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, id)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())
	vevent.Props.SetText(ical.PropSummary, e.Summary)
	vevent.Props.SetText(ical.PropDescription, e.Description)

	if e.Tag != "" {
		tagProp := ical.NewProp(propTag)
		tagProp.Value = string(e.Tag)
		vevent.Props[propTag] = []ical.Prop{*tagProp}
	}

	cal.Children = append(cal.Children, vevent.Component)
	return cal
}

func fromCalendarObject(obj *caldav.CalendarObject) (calendar.Event, bool) {
	if obj == nil || obj.Data == nil {
		return calendar.Event{}, false
	}

	for _, child := range obj.Data.Children {
		if child.Name != ical.CompEvent {
			continue
		}
		out := calendar.Event{ID: obj.Path}
		if props := child.Props[ical.PropSummary]; len(props) > 0 {
			out.Summary = props[0].Value
		}
		if props := child.Props[ical.PropDescription]; len(props) > 0 {
			out.Description = props[0].Value
		}
		if props := child.Props[propTag]; len(props) > 0 {
			out.Tag = domain.Tag(props[0].Value)
		}

		icalEvent := &ical.Event{Component: child}
		if start, err := icalEvent.DateTimeStart(time.UTC); err == nil {
			out.Start = start
		}
		if end, err := icalEvent.DateTimeEnd(time.UTC); err == nil {
			out.End = end
		}
		return out, true
	}
	return calendar.Event{}, false
}

type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(req)
}
