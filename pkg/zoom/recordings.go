package zoom

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"worker-recsync/constant"
)

// Meeting is one meeting instance with cloud recordings attached.
type Meeting struct {
	UUID           string          `json:"uuid"`
	ID             int64           `json:"id"`
	HostID         string          `json:"host_id"`
	Topic          string          `json:"topic"`
	StartTime      time.Time       `json:"start_time"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

type RecordingFile struct {
	ID             string            `json:"id"`
	MeetingID      string            `json:"meeting_id"`
	FileType       constant.FileKind `json:"file_type"`
	FileSize       int64             `json:"file_size"`
	Status         string            `json:"status"`
	DownloadURL    string            `json:"download_url"`
	RecordingStart string            `json:"recording_start"`
	RecordingEnd   string            `json:"recording_end"`
}

type listRecordingsResponse struct {
	NextPageToken string    `json:"next_page_token"`
	Meetings      []Meeting `json:"meetings"`
}

// ListAccountRecordings returns every meeting with completed cloud
// recordings in the given window. The provider caps the window at one
// month, pagination is followed to the end.
func (c *Client) ListAccountRecordings(ctx context.Context, from, to time.Time) ([]Meeting, error) {
	var meetings []Meeting
	pageToken := ""

	for {
		query := url.Values{
			"from":      []string{from.UTC().Format("2006-01-02")},
			"to":        []string{to.UTC().Format("2006-01-02")},
			"page_size": []string{strconv.Itoa(300)},
		}
		if pageToken != "" {
			query.Set("next_page_token", pageToken)
		}

		var page listRecordingsResponse
		if err := c.do(ctx, http.MethodGet, "/accounts/me/recordings", query, &page); err != nil {
			return nil, fmt.Errorf("listing account recordings: %w", err)
		}

		meetings = append(meetings, page.Meetings...)
		if page.NextPageToken == "" {
			return meetings, nil
		}
		pageToken = page.NextPageToken
	}
}

// DeleteRecording moves one recording file to the provider's trash.
func (c *Client) DeleteRecording(ctx context.Context, meetingID, recordingID string) error {
	query := url.Values{"action": []string{"trash"}}
	path := fmt.Sprintf("/meetings/%s/recordings/%s", url.PathEscape(meetingID), url.PathEscape(recordingID))
	if err := c.do(ctx, http.MethodDelete, path, query, nil); err != nil {
		return fmt.Errorf("deleting recording %s: %w", recordingID, err)
	}

	return nil
}
