package gworkspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultCalendarBaseURL = "https://www.googleapis.com/calendar/v3"
	defaultDriveBaseURL    = "https://www.googleapis.com/drive/v3"

	defaultTimeout  = 30 * time.Second
	downloadTimeout = 30 * time.Minute
)

// Client is a minimal calendar/file API client. Every call takes the
// access token explicitly because different calls in one run act as
// different delegated identities.
type Client struct {
	httpClient     *http.Client
	downloadClient *http.Client
	// Overridable for testing.
	CalendarBaseURL string
	DriveBaseURL    string
}

func NewClient() *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: defaultTimeout},
		downloadClient:  &http.Client{Timeout: downloadTimeout},
		CalendarBaseURL: defaultCalendarBaseURL,
		DriveBaseURL:    defaultDriveBaseURL,
	}
}

func (c *Client) get(ctx context.Context, token, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("GET %s: status %d: %s", rawURL, resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type Calendar struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type calendarListResponse struct {
	NextPageToken string     `json:"nextPageToken"`
	Items         []Calendar `json:"items"`
}

// ListCalendars returns every calendar visible to the token's identity.
func (c *Client) ListCalendars(ctx context.Context, token string) ([]Calendar, error) {
	var calendars []Calendar
	pageToken := ""

	for {
		query := url.Values{}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page calendarListResponse
		u := c.CalendarBaseURL + "/users/me/calendarList"
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		if err := c.get(ctx, token, u, &page); err != nil {
			return nil, fmt.Errorf("listing calendars: %w", err)
		}

		calendars = append(calendars, page.Items...)
		if page.NextPageToken == "" {
			return calendars, nil
		}
		pageToken = page.NextPageToken
	}
}

type EventTime struct {
	DateTime time.Time `json:"dateTime"`
}

type Attendee struct {
	Email     string `json:"email"`
	Organizer bool   `json:"organizer"`
	Resource  bool   `json:"resource"`
}

type Attachment struct {
	FileURL  string `json:"fileUrl"`
	Title    string `json:"title"`
	MimeType string `json:"mimeType"`
}

type Event struct {
	ID               string       `json:"id"`
	Summary          string       `json:"summary"`
	Description      string       `json:"description"`
	Location         string       `json:"location"`
	HTMLLink         string       `json:"htmlLink"`
	RecurringEventID string       `json:"recurringEventId"`
	Start            EventTime    `json:"start"`
	End              EventTime    `json:"end"`
	Attendees        []Attendee   `json:"attendees"`
	Attachments      []Attachment `json:"attachments"`
}

type eventListResponse struct {
	NextPageToken string  `json:"nextPageToken"`
	Items         []Event `json:"items"`
}

// ListEvents returns the calendar's single events that start at or
// before timeMax, oldest first.
func (c *Client) ListEvents(ctx context.Context, token, calendarID string, timeMax time.Time) ([]Event, error) {
	var events []Event
	pageToken := ""

	for {
		query := url.Values{
			"singleEvents": []string{"true"},
			"showDeleted":  []string{"true"},
			"orderBy":      []string{"startTime"},
			"timeMax":      []string{timeMax.UTC().Format(time.RFC3339)},
			"maxResults":   []string{"250"},
		}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page eventListResponse
		u := c.CalendarBaseURL + "/calendars/" + url.PathEscape(calendarID) + "/events?" + query.Encode()
		if err := c.get(ctx, token, u, &page); err != nil {
			return nil, fmt.Errorf("listing events for %s: %w", calendarID, err)
		}

		events = append(events, page.Items...)
		if page.NextPageToken == "" {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

type fileOwnersResponse struct {
	Owners []struct {
		EmailAddress string `json:"emailAddress"`
	} `json:"owners"`
}

// GetFileOwners returns the owner addresses recorded on a file.
func (c *Client) GetFileOwners(ctx context.Context, token, fileID string) ([]string, error) {
	query := url.Values{
		"fields":            []string{"owners(emailAddress)"},
		"supportsAllDrives": []string{"true"},
	}

	var resp fileOwnersResponse
	u := c.DriveBaseURL + "/files/" + url.PathEscape(fileID) + "?" + query.Encode()
	if err := c.get(ctx, token, u, &resp); err != nil {
		return nil, fmt.Errorf("getting owners of %s: %w", fileID, err)
	}

	owners := make([]string, 0, len(resp.Owners))
	for _, o := range resp.Owners {
		owners = append(owners, o.EmailAddress)
	}
	return owners, nil
}

// DownloadFile fetches the raw bytes of a file by id.
func (c *Client) DownloadFile(ctx context.Context, token, fileID string) ([]byte, error) {
	query := url.Values{
		"alt":               []string{"media"},
		"supportsAllDrives": []string{"true"},
	}

	u := c.DriveBaseURL + "/files/" + url.PathEscape(fileID) + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading file %s: status %d", fileID, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// GrantPermission adds a permission on the file for the given principal.
// Notification emails are suppressed.
func (c *Client) GrantPermission(ctx context.Context, token, fileID, email, role, principalType string) error {
	query := url.Values{
		"sendNotificationEmail": []string{"false"},
		"supportsAllDrives":     []string{"true"},
	}

	payload, err := json.Marshal(map[string]string{
		"role":         role,
		"type":         principalType,
		"emailAddress": email,
	})
	if err != nil {
		return err
	}

	u := c.DriveBaseURL + "/files/" + url.PathEscape(fileID) + "/permissions?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("granting %s on %s: status %d: %s", role, fileID, resp.StatusCode, string(body))
	}

	return nil
}

// FileIDFromLink extracts the file id from the link forms the calendar
// attaches: open?id=<id> and file/d/<id>/view.
func FileIDFromLink(link string) string {
	id := strings.TrimPrefix(link, "https://drive.google.com/open?id=")
	id = strings.TrimPrefix(id, "https://drive.google.com/file/d/")
	id = strings.TrimSuffix(id, "/view?usp=drive_web")
	return id
}
