// Package client provides a Go client for the Voyager class
// verification API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/renwickholm/starkverify/internal/classhash"
)

// JobStatus is the state of a verification job. Wire values are numeric.
type JobStatus int

const (
	StatusSubmitted JobStatus = iota
	StatusCompiled
	StatusCompileFailed
	StatusFail
	StatusSuccess
	StatusProcessing
	StatusUnknown
)

func (s JobStatus) String() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusCompiled:
		return "Compiled"
	case StatusCompileFailed:
		return "CompileFailed"
	case StatusFail:
		return "Fail"
	case StatusSuccess:
		return "Success"
	case StatusProcessing:
		return "Processing"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the job will not change state again.
func (s JobStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFail || s == StatusCompileFailed
}

// UnmarshalJSON maps unrecognized wire values to StatusUnknown.
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v < int(StatusSubmitted) || v > int(StatusProcessing) {
		*s = StatusUnknown
		return nil
	}
	*s = JobStatus(v)
	return nil
}

// Job is the server's view of a verification job.
type Job struct {
	JobID             string    `json:"job_id"`
	Status            JobStatus `json:"status"`
	StatusDescription string    `json:"status_description"`
	Message           string    `json:"message"`
	ErrorCategory     string    `json:"error_category"`
	ClassHash         string    `json:"class_hash"`
	CreatedTimestamp  float64   `json:"created_timestamp"`
	UpdatedTimestamp  float64   `json:"updated_timestamp"`
	Address           string    `json:"address"`
	ContractFile      string    `json:"contract_file"`
	Name              string    `json:"name"`
	Version           string    `json:"version"`
	License           string    `json:"license"`
}

// failureMessage picks the most specific failure text the server sent.
func (j *Job) failureMessage() string {
	if j.Message != "" {
		return j.Message
	}
	if j.StatusDescription != "" {
		return j.StatusDescription
	}
	return "unknown failure"
}

// JobNotFoundError is returned when the server has no job with the
// given ID.
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("verification job %q not found", e.JobID)
}

// CompilationError is a terminal job state: the submitted sources did
// not compile on the server.
type CompilationError struct {
	Message string
}

func (e *CompilationError) Error() string {
	return "compilation failed: " + e.Message
}

// VerificationError is a terminal job state: compilation succeeded but
// the class hash did not match.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string {
	return "verification failed: " + e.Message
}

// RequestError reports an unexpected HTTP response.
type RequestError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// File is one source file in a submission, keyed by its path inside
// the reduced project.
type File struct {
	Name    string
	Content []byte
}

// Submission carries everything the server needs to rebuild the class.
type Submission struct {
	CompilerVersion string
	ScarbVersion    string
	PackageName     string
	ContractName    string
	ContractFile    string
	ProjectDirPath  string
	License         string
	Files           []File
}

// Client talks to a Voyager verification endpoint.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithPollInterval sets the delay between job status polls.
func WithPollInterval(d time.Duration) Option {
	return func(client *Client) {
		client.pollInterval = d
	}
}

// New creates a client for the given API base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		pollInterval: 3 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ClassVerified reports whether the class is already verified.
func (c *Client) ClassVerified(ctx context.Context, hash classhash.Hash) (bool, error) {
	endpoint := c.baseURL + "/classes/" + url.PathEscape(hash.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, c.requestError(endpoint, resp)
	}
}

// VerifyClass submits the sources for verification and returns the
// job ID to poll.
func (c *Client) VerifyClass(ctx context.Context, hash classhash.Hash, sub *Submission) (string, error) {
	var body strings.Builder
	w := multipart.NewWriter(&body)

	fields := map[string]string{
		"compiler_version": sub.CompilerVersion,
		"scarb_version":    sub.ScarbVersion,
		"package_name":     sub.PackageName,
		"name":             sub.ContractName,
		"contract_file":    sub.ContractFile,
		"project_dir_path": sub.ProjectDirPath,
		"license":          sub.License,
	}
	for _, key := range []string{"compiler_version", "scarb_version", "package_name", "name", "contract_file", "project_dir_path", "license"} {
		if err := w.WriteField(key, fields[key]); err != nil {
			return "", err
		}
	}
	for _, f := range sub.Files {
		if err := w.WriteField(fmt.Sprintf("files[%s]", f.Name), string(f.Content)); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/class-verify/" + url.PathEscape(hash.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return "", &RequestError{URL: endpoint, StatusCode: resp.StatusCode, Body: apiErr.Error}
		}
		return "", &RequestError{URL: endpoint, StatusCode: resp.StatusCode, Body: "bad request"}
	case http.StatusRequestEntityTooLarge:
		return "", &RequestError{URL: endpoint, StatusCode: resp.StatusCode, Body: "request payload too large, maximum allowed size is 10MB"}
	default:
		return "", c.requestError(endpoint, resp)
	}

	var dispatch struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&dispatch); err != nil {
		return "", fmt.Errorf("decoding submission response: %w", err)
	}
	return dispatch.JobID, nil
}

// JobStatus fetches the current state of a verification job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*Job, error) {
	endpoint := c.baseURL + "/class-verify/job/" + url.PathEscape(jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &JobNotFoundError{JobID: jobID}
	default:
		return nil, c.requestError(endpoint, resp)
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decoding job status: %w", err)
	}
	return &job, nil
}

// WaitForCompletion polls the job until it reaches a terminal state or
// the context is cancelled. The poll rate is paced by the configured
// interval. Failed jobs are reported as CompilationError or
// VerificationError.
func (c *Client) WaitForCompletion(ctx context.Context, jobID string) (*Job, error) {
	limiter := rate.NewLimiter(rate.Every(c.pollInterval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		job, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case StatusSuccess:
			return job, nil
		case StatusCompileFailed:
			return job, &CompilationError{Message: job.failureMessage()}
		case StatusFail:
			return job, &VerificationError{Message: job.failureMessage()}
		}
	}
}

func (c *Client) requestError(endpoint string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &RequestError{
		URL:        endpoint,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
