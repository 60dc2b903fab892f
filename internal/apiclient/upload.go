package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrUploadNotConfigured is returned when no image host URL was configured
var ErrUploadNotConfigured = errors.New("image upload URL not configured")

// UploadImage posts the image as multipart form data (fields "file" and
// "upload_preset") to the image host and returns the hosted secure URL.
// The API bearer token is never sent to the image host.
func (c *Client) UploadImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	if c.uploadURL == "" {
		return "", ErrUploadNotConfigured
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("copy image: %w", err)
	}
	if err := mw.WriteField("upload_preset", c.uploadPreset); err != nil {
		return "", fmt.Errorf("write upload_preset: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.send(req, "image")
	if err != nil {
		return "", err
	}

	secureURL := gjson.GetBytes(body, "secure_url").String()
	if !gjson.ValidBytes(body) || secureURL == "" {
		return "", &Error{Kind: KindDecode, Method: req.Method, Path: req.URL.Path, Body: body, Err: errors.New("response has no secure_url")}
	}
	return secureURL, nil
}
