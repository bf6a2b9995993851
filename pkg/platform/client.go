// Package platform talks to the learning platform's upstream services: the
// identity endpoint that issues tokens and the Hasura GraphQL gateway.
package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	graphql "github.com/hasura/go-graphql-client"
)

// Upstream endpoint paths, relative to the platform base URL.
const (
	SignInPath  = "/api/auth/signin"
	GraphQLPath = "/api/graphql-engine/v1/graphql"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response body is kept in messages.
const maxErrorBody = 512

var (
	// ErrAuthFailed is wrapped by every AuthError.
	ErrAuthFailed = errors.New("sign in failed")
	// ErrRequestFailed is wrapped by every RequestError.
	ErrRequestFailed = errors.New("graphql request failed")
	// ErrEmptyToken is returned when the identity endpoint answers without a token.
	ErrEmptyToken = errors.New("empty token")
	// ErrMissingBaseURL is returned when the client has no base URL.
	ErrMissingBaseURL = errors.New("platform base URL is not set")
)

// Client calls the platform. The zero HTTPClient uses a client with DefaultTimeout.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
		Logger:     logger,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return &http.Client{Timeout: DefaultTimeout}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return slog.New(slog.DiscardHandler)
}

func (c *Client) endpoint(path string) (string, error) {
	if c.BaseURL == "" {
		return "", ErrMissingBaseURL
	}

	return strings.TrimRight(c.BaseURL, "/") + path, nil
}

// AuthError reports a rejected sign in.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("%s: %d %s", ErrAuthFailed, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}

	return msg
}

// Unwrap returns ErrAuthFailed.
func (e *AuthError) Unwrap() error {
	return ErrAuthFailed
}

// SignIn exchanges credentials for a token using HTTP Basic auth.
// A non-2xx answer is an *AuthError.
func (c *Client) SignIn(ctx context.Context, identifier, password string) (Token, error) {
	url, err := c.endpoint(SignInPath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build sign in request: %w", err)
	}

	req.SetBasicAuth(identifier, password)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read sign in response: %w", err)
	}

	if !successful(resp.StatusCode) {
		c.logger().WarnContext(ctx, "sign in rejected", "status", resp.StatusCode)

		return "", &AuthError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	token, err := decodeToken(body)
	if err != nil {
		return "", err
	}

	c.logger().DebugContext(ctx, "signed in", "identifier", identifier)

	return token, nil
}

// decodeToken reads the identity endpoint body: a JSON string, or a bare token.
func decodeToken(body []byte) (Token, error) {
	var raw string

	err := json.Unmarshal(body, &raw)
	if err != nil {
		raw = string(body)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyToken
	}

	return Token(raw), nil
}

// errorMessage extracts a short human message from an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}

		if payload.Message != "" {
			return payload.Message
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}

	return msg
}

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
		Path string `json:"path"`
	} `json:"extensions"`
}

// codeInvalidJWT is the Hasura error code for a token it cannot verify.
// "access-denied" is a permission error on a valid token and does not count.
const codeInvalidJWT = "invalid-jwt"

// RequestError reports a failed GraphQL call: a transport failure (Err), a
// non-2xx status or a response carrying GraphQL errors.
type RequestError struct {
	StatusCode int
	Errors     []GraphQLError
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", ErrRequestFailed, e.Err)
	case len(e.Errors) > 0:
		msgs := make([]string, 0, len(e.Errors))
		for _, ge := range e.Errors {
			msgs = append(msgs, ge.Message)
		}

		return fmt.Sprintf("%s: %s", ErrRequestFailed, strings.Join(msgs, "; "))
	default:
		return fmt.Sprintf("%s: %d %s", ErrRequestFailed, e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// Unwrap returns ErrRequestFailed and the transport error, if any.
func (e *RequestError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRequestFailed, e.Err}
	}

	return []error{ErrRequestFailed}
}

// Unauthorized reports whether the gateway rejected the token.
func (e *RequestError) Unauthorized() bool {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return true
	}

	for _, ge := range e.Errors {
		if ge.Extensions.Code == codeInvalidJWT {
			return true
		}
	}

	return false
}

// IsUnauthorized reports whether err is a sign in rejection or a gateway
// token rejection.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrAuthFailed) {
		return true
	}

	var reqErr *RequestError

	return errors.As(err, &reqErr) && reqErr.Unauthorized()
}

// Error codes the GraphQL client library uses for its own failures, as
// opposed to errors reported by the gateway.
var libraryErrorCodes = map[string]bool{
	"request_error":        true,
	"json_encode_error":    true,
	"json_decode_error":    true,
	"graphql_encode_error": true,
	"graphql_decode_error": true,
}

// statusDoer remembers the status code of the last response it saw.
type statusDoer struct {
	next   *http.Client
	status int
}

func (d *statusDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.next.Do(req)
	if resp != nil {
		d.status = resp.StatusCode
	}

	return resp, err
}

// Execute runs query with variables and decodes the "data" member into out.
func (c *Client) Execute(ctx context.Context, token Token, query string, variables map[string]any, out any) error {
	url, err := c.endpoint(GraphQLPath)
	if err != nil {
		return err
	}

	if variables == nil {
		variables = map[string]any{}
	}

	doer := &statusDoer{next: c.httpClient()}
	gql := graphql.NewClient(url, doer).WithRequestModifier(func(req *http.Request) {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+string(token))
	})

	data, err := gql.ExecRaw(ctx, query, variables)
	if err != nil || !successful(doer.status) {
		return requestError(doer.status, err)
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return &RequestError{StatusCode: doer.status, Err: fmt.Errorf("decode data: %w", err)}
	}

	c.logger().DebugContext(ctx, "graphql query done", "bytes", len(data))

	return nil
}

func successful(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// requestError maps a GraphQL client failure to a *RequestError.
func requestError(status int, err error) *RequestError {
	if status != 0 && !successful(status) {
		return &RequestError{StatusCode: status}
	}

	var gqlErrs graphql.Errors
	if !errors.As(err, &gqlErrs) {
		return &RequestError{StatusCode: status, Err: err}
	}

	reported := make([]GraphQLError, 0, len(gqlErrs))

	for _, ge := range gqlErrs {
		code, _ := ge.Extensions["code"].(string)
		if libraryErrorCodes[code] {
			return &RequestError{StatusCode: status, Err: err}
		}

		entry := GraphQLError{Message: ge.Message}
		entry.Extensions.Code = code
		entry.Extensions.Path, _ = ge.Extensions["path"].(string)
		reported = append(reported, entry)
	}

	return &RequestError{StatusCode: status, Errors: reported}
}
