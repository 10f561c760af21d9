package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// ErrUploadFailed is returned when the server did not accept a recording.
var ErrUploadFailed = errors.New("recorder: upload failed")

// UploadResult is the answer of the upload endpoint.
type UploadResult struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect,omitempty"`
}

// Uploader sends a serialized recording somewhere.
type Uploader interface {
	Upload(ctx context.Context, extension string, data io.Reader) (UploadResult, error)
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(ctx context.Context, extension string, data io.Reader) (UploadResult, error)

func (f UploaderFunc) Upload(ctx context.Context, extension string, data io.Reader) (UploadResult, error) {
	return f(ctx, extension, data)
}

// HTTPUploader posts recordings as multipart forms with the fields
// "extension" and "file", and expects a JSON UploadResult back.
type HTTPUploader struct {
	URL    string
	Client *http.Client // http.DefaultClient if nil
}

// Upload implements Uploader.
func (u *HTTPUploader) Upload(ctx context.Context, extension string, data io.Reader) (UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("extension", extension); err != nil {
		return UploadResult{}, err
	}
	part, err := mw.CreateFormFile("file", "recorded-animation."+extension)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, data); err != nil {
		return UploadResult{}, fmt.Errorf("recorder: read recording: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.URL, &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	var res UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return UploadResult{}, fmt.Errorf("%w: status %d: bad response: %w", ErrUploadFailed, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return res, fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}
	return res, nil
}
