package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rayclock/rayclock/internal/model"
)

const DefaultBaseURL = "https://caldav.icloud.com"

// ErrAuthFailed covers 401 responses, including revoked app-specific
// passwords.
var ErrAuthFailed = errors.New("calendar authentication failed")

var (
	hrefRe         = regexp.MustCompile(`(?is)<[^>]*href[^>]*>([^<]+)</[^>]*href[^>]*>`)
	displayNameRe  = regexp.MustCompile(`(?is)<[^>]*displayname[^>]*>([^<]+)</[^>]*displayname[^>]*>`)
	calendarDataRe = regexp.MustCompile(`(?is)<[^>]*calendar-data[^>]*>(.*?)</[^>]*calendar-data[^>]*>`)
	responseSplit  = regexp.MustCompile(`(?i)<[^>]*response[^>]*>`)
)

// Client speaks just enough CalDAV to discover calendars and pull their
// contents. Namespace prefixes in server responses vary, so the XML is
// matched loosely rather than decoded.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

func NewClient(username, password string) *Client {
	return &Client{
		baseURL:  DefaultBaseURL,
		username: username,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local
// server.
func NewClientWithBaseURL(username, password, baseURL string) *Client {
	c := NewClient(username, password)
	c.baseURL = baseURL
	return c
}

// TestConnection verifies the credentials by running principal discovery.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.discoverPrincipal(ctx)
	return err
}

// FetchEvents pulls events from every event calendar on the account,
// covering 30 days back to 30 days ahead, sorted by start time.
// Calendars that fail are skipped so one broken calendar cannot hide
// the rest.
func (c *Client) FetchEvents(ctx context.Context) ([]model.CalendarEvent, error) {
	calendars, err := c.discoverCalendars(ctx)
	if err != nil {
		return nil, err
	}

	var all []model.CalendarEvent
	for _, cal := range calendars {
		if cal.isReminders {
			continue
		}
		events, err := c.fetchCalendarEvents(ctx, cal)
		if err != nil {
			continue
		}
		all = append(all, events...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].StartDate.Before(all[j].StartDate)
	})
	return all, nil
}

// FetchReminders pulls to-dos from every reminder list on the account,
// sorted by due date with undated items last.
func (c *Client) FetchReminders(ctx context.Context) ([]model.Reminder, error) {
	calendars, err := c.discoverCalendars(ctx)
	if err != nil {
		return nil, err
	}

	var all []model.Reminder
	for _, cal := range calendars {
		if !cal.isReminders {
			continue
		}
		reminders, err := c.fetchReminders(ctx, cal)
		if err != nil {
			continue
		}
		all = append(all, reminders...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].DueDate, all[j].DueDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
	return all, nil
}

type calendarInfo struct {
	href        string
	displayName string
	isReminders bool
}

func (c *Client) discoverCalendars(ctx context.Context) ([]calendarInfo, error) {
	principal, err := c.discoverPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	home, err := c.discoverCalendarHome(ctx, principal)
	if err != nil {
		return nil, err
	}
	return c.listCalendars(ctx, home)
}

func (c *Client) discoverPrincipal(ctx context.Context) (string, error) {
	body := `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:">
  <d:prop>
    <d:current-user-principal/>
  </d:prop>
</d:propfind>`

	xml, err := c.request(ctx, "PROPFIND", c.baseURL, body, "0")
	if err != nil {
		return "", err
	}

	hrefs := extractHrefs(xml)
	for _, h := range hrefs {
		if strings.Contains(h, "/principal/") || strings.Contains(h, "/user/") {
			return h, nil
		}
	}
	if len(hrefs) > 0 {
		return hrefs[0], nil
	}
	return "/", nil
}

func (c *Client) discoverCalendarHome(ctx context.Context, principal string) (string, error) {
	body := `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav">
  <d:prop>
    <c:calendar-home-set/>
  </d:prop>
</d:propfind>`

	xml, err := c.request(ctx, "PROPFIND", c.absoluteURL(principal), body, "0")
	if err != nil {
		return "", err
	}

	hrefs := extractHrefs(xml)
	for _, h := range hrefs {
		if h != principal {
			return h, nil
		}
	}
	if len(hrefs) > 0 {
		return hrefs[0], nil
	}
	return principal, nil
}

func (c *Client) listCalendars(ctx context.Context, home string) ([]calendarInfo, error) {
	body := `<?xml version="1.0" encoding="utf-8"?>
<d:propfind xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav">
  <d:prop>
    <d:displayname/>
    <d:resourcetype/>
    <c:supported-calendar-component-set/>
  </d:prop>
</d:propfind>`

	xml, err := c.request(ctx, "PROPFIND", c.absoluteURL(home), body, "1")
	if err != nil {
		return nil, err
	}

	var calendars []calendarInfo
	for _, chunk := range responseSplit.Split(xml, -1) {
		if !strings.Contains(chunk, "calendar") {
			continue
		}
		hrefMatch := hrefRe.FindStringSubmatch(chunk)
		if hrefMatch == nil {
			continue
		}
		href := strings.TrimSpace(hrefMatch[1])
		if href == home {
			continue
		}

		name := "Unnamed Calendar"
		if m := displayNameRe.FindStringSubmatch(chunk); m != nil {
			name = strings.TrimSpace(m[1])
		}

		calendars = append(calendars, calendarInfo{
			href:        href,
			displayName: name,
			isReminders: strings.Contains(chunk, "VTODO"),
		})
	}
	return calendars, nil
}

func (c *Client) fetchCalendarEvents(ctx context.Context, cal calendarInfo) ([]model.CalendarEvent, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -30).Format("20060102T150405Z")
	end := now.AddDate(0, 0, 30).Format("20060102T150405Z")

	body := fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<c:calendar-query xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav">
  <d:prop>
    <d:getetag/>
    <c:calendar-data/>
  </d:prop>
  <c:filter>
    <c:comp-filter name="VCALENDAR">
      <c:comp-filter name="VEVENT">
        <c:time-range start="%s" end="%s"/>
      </c:comp-filter>
    </c:comp-filter>
  </c:filter>
</c:calendar-query>`, start, end)

	xml, err := c.request(ctx, "REPORT", c.absoluteURL(cal.href), body, "1")
	if err != nil {
		return nil, err
	}

	var events []model.CalendarEvent
	for _, ical := range extractCalendarData(xml) {
		events = append(events, parseVEvents(ical, cal.displayName)...)
	}
	return events, nil
}

func (c *Client) fetchReminders(ctx context.Context, cal calendarInfo) ([]model.Reminder, error) {
	body := `<?xml version="1.0" encoding="utf-8"?>
<c:calendar-query xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav">
  <d:prop>
    <d:getetag/>
    <c:calendar-data/>
  </d:prop>
  <c:filter>
    <c:comp-filter name="VCALENDAR">
      <c:comp-filter name="VTODO"/>
    </c:comp-filter>
  </c:filter>
</c:calendar-query>`

	xml, err := c.request(ctx, "REPORT", c.absoluteURL(cal.href), body, "1")
	if err != nil {
		return nil, err
	}

	var reminders []model.Reminder
	for _, ical := range extractCalendarData(xml) {
		reminders = append(reminders, parseVTodos(ical, cal.displayName)...)
	}
	return reminders, nil
}

func (c *Client) request(ctx context.Context, method, url, body, depth string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader(body))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	req.Header.Set("Depth", depth)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrAuthFailed
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("calendar server returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Client) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return c.baseURL + href
}

func extractHrefs(xml string) []string {
	var hrefs []string
	for _, m := range hrefRe.FindAllStringSubmatch(xml, -1) {
		hrefs = append(hrefs, strings.TrimSpace(m[1]))
	}
	return hrefs
}

func extractCalendarData(xml string) []string {
	var blocks []string
	for _, m := range calendarDataRe.FindAllStringSubmatch(xml, -1) {
		blocks = append(blocks, strings.TrimSpace(m[1]))
	}
	return blocks
}
