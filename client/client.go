package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"Babel/internal/api"
	"Babel/internal/market"
)

const (
	// defaultTimeout bounds a single request.
	defaultTimeout = 10 * time.Second

	// defaultRetries is the number of retries on transport or server errors.
	defaultRetries = 2
)

// Client talks to a market node over its HTTP API.
// Mutating calls carry a fresh Idempotency-Key, so retries never execute twice.
type Client struct {
	baseURL string        // baseURL is the node address (e.g. "http://127.0.0.1:8080")
	http    *resty.Client // http is the underlying resty client
}

// APIError is a failed request as reported by the node.
type APIError struct {
	Status    int    // Status is the HTTP status
	Code      int    // Code is the stable error code
	Message   string // Message is the node's description
	RequestID string // RequestID identifies the request in node logs
}

func (e *APIError) Error() string {
	return fmt.Sprintf("code %d: %s (request %s)", e.Code, e.Message, e.RequestID)
}

// Unwrap maps the code back to its market sentinel, so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	return market.FromCode(e.Code)
}

// NewClient creates a client for the node at baseURL.
// A bare host:port is treated as plain HTTP.
func NewClient(baseURL string) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(defaultTimeout).
		SetRetryCount(defaultRetries).
		SetRetryWaitTime(100 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetError(&api.ErrorBody{})

	return &Client{baseURL: baseURL, http: c}
}

// Health reports the node's current height.
func (c *Client) Health(ctx context.Context) (uint64, error) {
	var resp struct {
		Height uint64 `json:"height"`
	}

	if err := c.get(ctx, "/health", &resp); err != nil {
		return 0, err
	}

	return resp.Height, nil
}

// CreateProject creates a project and returns its id.
func (c *Client) CreateProject(ctx context.Context, req api.CreateProjectRequest) (uint64, error) {
	var resp api.CreateProjectResponse
	if err := c.post(ctx, "/projects", req, &resp); err != nil {
		return 0, err
	}

	return resp.ID, nil
}

// Project reads a project.
func (c *Client) Project(ctx context.Context, projectID uint64) (api.ProjectResponse, error) {
	var resp api.ProjectResponse
	err := c.get(ctx, fmt.Sprintf("/projects/%d", projectID), &resp)

	return resp, err
}

// SettleExpired refunds an expired project.
func (c *Client) SettleExpired(ctx context.Context, projectID uint64) (api.ProjectResponse, error) {
	var resp api.ProjectResponse
	err := c.post(ctx, fmt.Sprintf("/projects/%d/settle", projectID), nil, &resp)

	return resp, err
}

// Contribute records a backer contribution and returns the account's total.
func (c *Client) Contribute(ctx context.Context, projectID uint64, account string, amount uint64) (uint64, error) {
	var resp api.ContributionResponse
	req := api.ContributionRequest{Account: account, Amount: amount}

	if err := c.post(ctx, fmt.Sprintf("/projects/%d/contributions", projectID), req, &resp); err != nil {
		return 0, err
	}

	return resp.Total, nil
}

// SubmitTranslation submits or replaces a translation.
func (c *Client) SubmitTranslation(ctx context.Context, projectID uint64, translator, hash string) (api.TranslationResponse, error) {
	var resp api.TranslationResponse
	req := api.SubmitTranslationRequest{Translator: translator, TranslationHash: hash}
	err := c.post(ctx, fmt.Sprintf("/projects/%d/translations", projectID), req, &resp)

	return resp, err
}

// Translation reads a translation.
func (c *Client) Translation(ctx context.Context, projectID uint64, translator string) (api.TranslationResponse, error) {
	var resp api.TranslationResponse
	err := c.get(ctx, fmt.Sprintf("/projects/%d/translations/%s", projectID, url.PathEscape(translator)), &resp)

	return resp, err
}

// Votes reads the mirrored yes-vote count of a translation.
func (c *Client) Votes(ctx context.Context, projectID uint64, translator string) (uint64, error) {
	var resp api.VotesResponse
	if err := c.get(ctx, fmt.Sprintf("/projects/%d/translations/%s/votes", projectID, url.PathEscape(translator)), &resp); err != nil {
		return 0, err
	}

	return resp.Votes, nil
}

// OpenMilestone opens a voting window on a project.
func (c *Client) OpenMilestone(ctx context.Context, projectID uint64, req api.OpenMilestoneRequest) (api.MilestoneResponse, error) {
	var resp api.MilestoneResponse
	err := c.post(ctx, fmt.Sprintf("/projects/%d/milestones", projectID), req, &resp)

	return resp, err
}

// Milestone reads a milestone.
func (c *Client) Milestone(ctx context.Context, projectID, milestoneID uint64) (api.MilestoneResponse, error) {
	var resp api.MilestoneResponse
	err := c.get(ctx, milestonePath(projectID, milestoneID, ""), &resp)

	return resp, err
}

// Vote casts a vote and returns the updated tally.
func (c *Client) Vote(ctx context.Context, projectID, milestoneID uint64, voter string, choice bool) (api.VoteResultResponse, error) {
	var resp api.VoteResultResponse
	req := api.VoteRequest{Voter: voter, Choice: choice}
	err := c.post(ctx, milestonePath(projectID, milestoneID, "/votes"), req, &resp)

	return resp, err
}

// UserVote returns a voter's choice; found is false when they have not voted.
func (c *Client) UserVote(ctx context.Context, projectID, milestoneID uint64, voter string) (choice, found bool, err error) {
	var resp api.UserVoteResponse
	if err := c.get(ctx, milestonePath(projectID, milestoneID, "/votes/"+url.PathEscape(voter)), &resp); err != nil {
		return false, false, err
	}

	if resp.Vote == nil {
		return false, false, nil
	}

	return *resp.Vote, true, nil
}

// VoteResult reads a milestone tally.
func (c *Client) VoteResult(ctx context.Context, projectID, milestoneID uint64) (api.VoteResultResponse, error) {
	var resp api.VoteResultResponse
	err := c.get(ctx, milestonePath(projectID, milestoneID, "/result"), &resp)

	return resp, err
}

// Resolve resolves a milestone whose window has closed.
func (c *Client) Resolve(ctx context.Context, projectID, milestoneID uint64) (api.ResolutionResponse, error) {
	var resp api.ResolutionResponse
	err := c.post(ctx, milestonePath(projectID, milestoneID, "/resolve"), nil, &resp)

	return resp, err
}

// Resolution reads a stored resolution.
func (c *Client) Resolution(ctx context.Context, projectID, milestoneID uint64) (api.ResolutionResponse, error) {
	var resp api.ResolutionResponse
	err := c.get(ctx, milestonePath(projectID, milestoneID, "/resolution"), &resp)

	return resp, err
}

// Reputation reads a translator's score.
func (c *Client) Reputation(ctx context.Context, account string) (int64, error) {
	var resp api.ReputationResponse
	if err := c.get(ctx, "/reputation/"+url.PathEscape(account), &resp); err != nil {
		return 0, err
	}

	return resp.Score, nil
}

// Height reads the node's progress counter.
func (c *Client) Height(ctx context.Context) (uint64, error) {
	var resp api.HeightResponse
	if err := c.get(ctx, "/height", &resp); err != nil {
		return 0, err
	}

	return resp.Height, nil
}

// AdvanceHeight moves the progress counter forward.
func (c *Client) AdvanceHeight(ctx context.Context, h uint64) (uint64, error) {
	var resp api.HeightResponse
	if err := c.post(ctx, "/height", api.HeightRequest{Height: h}, &resp); err != nil {
		return 0, err
	}

	return resp.Height, nil
}

// Snapshot downloads the compressed state export.
func (c *Client) Snapshot(ctx context.Context) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/snapshot")
	if err != nil {
		return nil, fmt.Errorf("GET /snapshot:\n%w", err)
	}

	if err := asError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

func milestonePath(projectID, milestoneID uint64, suffix string) string {
	return fmt.Sprintf("/projects/%d/milestones/%d%s", projectID, milestoneID, suffix)
}

// get performs a GET request and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, result any) error {
	resp, err := c.http.R().SetContext(ctx).SetResult(result).Get(path)
	if err != nil {
		return fmt.Errorf("GET %s:\n%w", path, err)
	}

	return asError(resp)
}

// post performs a POST request with a JSON body and decodes the JSON response.
func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetResult(result)

	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("POST %s:\n%w", path, err)
	}

	return asError(resp)
}

// asError converts a failed response into an *APIError.
func asError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode(), Code: resp.StatusCode(), Message: resp.Status()}

	if body, ok := resp.Error().(*api.ErrorBody); ok && body.Error.Code != 0 {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
		apiErr.RequestID = body.RequestID
	}

	return apiErr
}
