package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/inspection-service/internal/config"
)

// Host abstracts the remote image-hosting collaborator.
type Host interface {
	UploadImage(ctx context.Context, file io.Reader, filename string) (string, error)
	UploadBase64(ctx context.Context, data string) (string, error)
	Destroy(ctx context.Context, publicID string) error
}

// APIError represents a media host error response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("media host: %s (status %d)", e.Message, e.Status)
}

// Client calls the image host over HTTP.
type Client struct {
	cfg        config.MediaConfig
	httpClient *http.Client
	now        func() time.Time
	newID      func() string
}

// NewClient constructs a media host client.
func NewClient(cfg config.MediaConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// UploadImage streams a file to the host and returns the resulting secure URL.
func (c *Client) UploadImage(ctx context.Context, file io.Reader, filename string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	params := c.uploadParams()
	for key, val := range params {
		if err := writer.WriteField(key, val); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload"), body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp uploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

// UploadBase64 submits an inline-encoded image and returns the secure URL.
func (c *Client) UploadBase64(ctx context.Context, data string) (string, error) {
	form := url.Values{}
	form.Set("file", data)
	for key, val := range c.uploadParams() {
		form.Set(key, val)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload"),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp uploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

// Destroy deletes a stored image by its public id.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	c.sign(params)

	form := url.Values{}
	for key, val := range params {
		form.Set(key, val)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("destroy"),
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp destroyResponse
	if err := c.do(req, &resp); err != nil {
		return err
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return &APIError{Status: http.StatusOK, Message: "destroy result " + resp.Result}
	}
	return nil
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

func (c *Client) endpoint(action string) string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/%s/image/%s", base, c.cfg.CloudName, action)
}

func (c *Client) uploadParams() map[string]string {
	params := map[string]string{
		"folder":          c.cfg.Folder,
		"public_id":       c.newID(),
		"timestamp":       strconv.FormatInt(c.now().Unix(), 10),
		"transformation":  fmt.Sprintf("c_limit,w_%d", c.cfg.MaxWidth),
		"allowed_formats": strings.Join(c.cfg.AllowedFormats, ","),
	}
	c.sign(params)
	return params
}

// sign adds api_key and the host's sha1 request signature over the sorted
// parameter set.
func (c *Client) sign(params map[string]string) {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	digest := sha1.Sum([]byte(strings.Join(pairs, "&") + c.cfg.APISecret))

	params["api_key"] = c.cfg.APIKey
	params["signature"] = hex.EncodeToString(digest[:])
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		message := strings.TrimSpace(string(payload))
		if message == "" {
			message = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
