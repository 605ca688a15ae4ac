package puzzle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/username/pzl-reminder/internal/report"
	"github.com/username/pzl-reminder/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second

	apiPathSuffix     = "/api/graphql"
	reportsPathSuffix = "/reports"
)

// ErrNoEndpoint is returned when the API endpoint is not configured
var ErrNoEndpoint = errors.New("puzzle API endpoint is not configured")

// Client represents Puzzle GraphQL API client
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Puzzle API client.
// A zero timeout falls back to 30 seconds.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ReportsURL derives the web UI link from the GraphQL endpoint
func ReportsURL(endpoint string) string {
	return strings.Replace(endpoint, apiPathSuffix, reportsPathSuffix, 1)
}

// UserSummary returns per-day logged hours of the user with the given login
func (c *Client) UserSummary(ctx context.Context, login string) ([]SummaryDay, error) {
	req := GraphQLRequest{
		Query:         userSummaryQuery,
		OperationName: "userSummary",
		Variables: userSummaryVariables{
			UserBy: UserBy{WithoutDomain: &UserWithoutDomain{Login: login}},
		},
	}

	data, err := c.doRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user summary: %w", err)
	}

	summary := data.Get("userSummary")
	if !summary.IsArray() {
		return nil, fmt.Errorf("failed to get user summary: userSummary is missing in response")
	}

	var days []SummaryDay
	summary.ForEach(func(_, item gjson.Result) bool {
		days = append(days, SummaryDay{
			Date:  item.Get("date").String(),
			Hours: item.Get("hours").Float(),
			Ack:   item.Get("ack").Bool(),
		})
		return true
	})

	c.logger.Info("User summary retrieved",
		zap.String("login", login),
		zap.Int("days", len(days)))

	return days, nil
}

// FetchRecords implements report.Fetcher
func (c *Client) FetchRecords(ctx context.Context, login string) ([]report.Record, error) {
	days, err := c.UserSummary(ctx, login)
	if err != nil {
		return nil, err
	}

	records := make([]report.Record, 0, len(days))
	for _, d := range days {
		date, err := dateutil.ParseDate(d.Date)
		if err != nil {
			c.logger.Warn("Skipping summary day with invalid date",
				zap.String("date", d.Date),
				zap.Error(err))
			continue
		}
		records = append(records, report.Record{
			Date:      date,
			Hours:     d.Hours,
			Confirmed: d.Ack,
		})
	}

	return records, nil
}

// doRequest performs a single GraphQL call and returns its "data" member.
// There are no retries: a failed call is reported to the caller as is.
func (c *Client) doRequest(ctx context.Context, body GraphQLRequest) (gjson.Result, error) {
	if c.endpoint == "" {
		return gjson.Result{}, ErrNoEndpoint
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gjson.Result{}, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if !gjson.ValidBytes(respBody) {
		return gjson.Result{}, fmt.Errorf("failed to parse response: invalid JSON")
	}

	result := gjson.ParseBytes(respBody)
	if errs := result.Get("errors"); errs.IsArray() && len(errs.Array()) > 0 {
		messages := make([]string, 0, len(errs.Array()))
		for _, e := range errs.Array() {
			messages = append(messages, e.Get("message").String())
		}
		return gjson.Result{}, fmt.Errorf("GraphQL errors: %s", strings.Join(messages, "; "))
	}

	return result.Get("data"), nil
}
