package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
)

const eventsPath = "/api/events"

// StreamPath is the server-sent events endpoint for new calendar entries.
const StreamPath = eventsPath + "/stream"

func (c *HTTPClient) Events(ctx context.Context, start, end string) ([]models.CakeEvent, error) {
	var out []models.CakeEvent
	q := url.Values{"start": {start}, "end": {end}}
	if err := c.getJSON(ctx, eventsPath, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Event(ctx context.Context, id string) (*models.CakeEvent, error) {
	var out models.CakeEvent
	if err := c.getJSON(ctx, eventsPath+"/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RankedEvents(ctx context.Context) ([]models.CakeEvent, error) {
	var out []models.CakeEvent
	if err := c.getJSON(ctx, eventsPath+"/ranked", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvent posts the event as a JSON string in the "event" form field,
// with the optional image in the "image" part.
func (c *HTTPClient) CreateEvent(ctx context.Context, event models.NewCakeEvent, image *Upload) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	fields := map[string]string{"event": string(payload)}

	var files map[string]Upload
	if image != nil {
		files = map[string]Upload{"image": *image}
	}
	return c.postMultipart(ctx, eventsPath, fields, files)
}

func (c *HTTPClient) UploadPhoto(ctx context.Context, id string, photo Upload) error {
	return c.postMultipart(ctx, eventsPath+"/"+url.PathEscape(id)+"/photo", nil, map[string]Upload{"photo": photo})
}

func (c *HTTPClient) RateEvent(ctx context.Context, id string, rating models.Rating) error {
	return c.sendJSON(ctx, http.MethodPost, eventsPath+"/"+url.PathEscape(id)+"/rate", rating, nil)
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, eventsPath+"/"+url.PathEscape(id), nil, nil)
}

// EventICS downloads the iCalendar export of one event.
func (c *HTTPClient) EventICS(ctx context.Context, id string) ([]byte, error) {
	return c.getBytes(ctx, eventsPath+"/"+url.PathEscape(id)+"/ics")
}

func (c *HTTPClient) postMultipart(ctx context.Context, path string, fields map[string]string, files map[string]Upload) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return err
		}
	}
	for field, f := range files {
		part, err := mw.CreateFormFile(field, f.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, nil)
}
