package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	DefaultEndpoint = "https://sheets.googleapis.com/v4"
	readOnlyScope   = "https://www.googleapis.com/auth/spreadsheets.readonly"

	// Keeps batchGet URLs well under the API's request line limit.
	maxRangesPerBatch = 100
)

// Config describes how to reach and authenticate against one spreadsheet.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string // service account JSON key on disk
	CredentialsJSON string // service account JSON key inline
	APIKey          string // for sheets shared publicly
	Endpoint        string
	RetryMax        int
	Timeout         time.Duration
	Logger          retryablehttp.Logger
}

// Client is a Reader backed by the Sheets REST API.
type Client struct {
	cfg Config

	once    sync.Once
	http    *retryablehttp.Client
	initErr error
}

// New validates cfg and returns a Client. No network access happens here.
func New(cfg Config) (*Client, error) {
	cfg.SpreadsheetID = strings.TrimSpace(cfg.SpreadsheetID)
	if cfg.SpreadsheetID == "" {
		return nil, ErrMissingSheetID
	}
	if cfg.CredentialsFile == "" && cfg.CredentialsJSON == "" && cfg.APIKey == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryMax < 0 {
		cfg.RetryMax = 0
	}
	return &Client{cfg: cfg}, nil
}

// client builds the authenticated HTTP client on first use and keeps it for
// the lifetime of the process.
func (c *Client) client() (*retryablehttp.Client, error) {
	c.once.Do(func() {
		base := &http.Client{Timeout: c.cfg.Timeout}
		if c.cfg.APIKey == "" {
			data := []byte(c.cfg.CredentialsJSON)
			if len(data) == 0 {
				var err error
				data, err = os.ReadFile(c.cfg.CredentialsFile)
				if err != nil {
					c.initErr = fmt.Errorf("sheets: reading credentials: %w", err)
					return
				}
			}
			creds, err := google.CredentialsFromJSON(context.Background(), data, readOnlyScope)
			if err != nil {
				c.initErr = fmt.Errorf("sheets: parsing credentials: %w", err)
				return
			}
			base = oauth2.NewClient(context.Background(), creds.TokenSource)
			base.Timeout = c.cfg.Timeout
		}

		rc := retryablehttp.NewClient()
		rc.HTTPClient = base
		rc.RetryMax = c.cfg.RetryMax
		rc.Logger = c.cfg.Logger
		// Hand the final response back instead of a "giving up" error so
		// quota answers reach the caller untouched.
		rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
		c.http = rc
	})
	return c.http, c.initErr
}

// Values implements Reader.
func (c *Client) Values(ctx context.Context, a1 string) ([][]string, error) {
	q := url.Values{}
	q.Set("majorDimension", "ROWS")
	q.Set("valueRenderOption", "FORMATTED_VALUE")
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s", c.cfg.Endpoint, url.PathEscape(c.cfg.SpreadsheetID), url.PathEscape(a1))

	body, err := c.get(ctx, endpoint, q)
	if err != nil {
		return nil, err
	}
	return decodeGrid(gjson.GetBytes(body, "values")), nil
}

// BatchValues implements Reader.
func (c *Client) BatchValues(ctx context.Context, ranges []string) ([][][]string, error) {
	out := make([][][]string, 0, len(ranges))
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values:batchGet", c.cfg.Endpoint, url.PathEscape(c.cfg.SpreadsheetID))

	for start := 0; start < len(ranges); start += maxRangesPerBatch {
		end := start + maxRangesPerBatch
		if end > len(ranges) {
			end = len(ranges)
		}
		q := url.Values{}
		q.Set("majorDimension", "ROWS")
		q.Set("valueRenderOption", "FORMATTED_VALUE")
		for _, r := range ranges[start:end] {
			q.Add("ranges", r)
		}

		body, err := c.get(ctx, endpoint, q)
		if err != nil {
			return nil, err
		}
		valueRanges := gjson.GetBytes(body, "valueRanges").Array()
		for i := start; i < end; i++ {
			if j := i - start; j < len(valueRanges) {
				out = append(out, decodeGrid(valueRanges[j].Get("values")))
			} else {
				out = append(out, nil)
			}
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	hc, err := c.client()
	if err != nil {
		return nil, err
	}
	if c.cfg.APIKey != "" {
		q.Set("key", c.cfg.APIKey)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func decodeAPIError(code int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: code,
		Status:     gjson.GetBytes(body, "error.status").String(),
		Message:    gjson.GetBytes(body, "error.message").String(),
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(http.StatusText(code))
	}
	return apiErr
}

// decodeGrid coerces every cell of a JSON values array to a string.
func decodeGrid(values gjson.Result) [][]string {
	rows := values.Array()
	grid := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := row.Array()
		line := make([]string, len(cells))
		for i, cell := range cells {
			line[i] = cell.String()
		}
		grid = append(grid, line)
	}
	return grid
}
