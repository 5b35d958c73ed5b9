package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/storekeeper/internal/client/models"
	"github.com/dmitrijs2005/storekeeper/internal/common"
	"github.com/dmitrijs2005/storekeeper/internal/filex"
	"github.com/dmitrijs2005/storekeeper/internal/logging"
)

const defaultTimeout = 15 * time.Second

// HTTPClient talks to the back-office REST API over plain HTTP.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logging.Logger
}

// Options allows overriding the client's dependencies.
type Options struct {
	HTTPClient *http.Client
	Logger     logging.Logger
}

// NewHTTPClient constructs a client for the API at baseURL.
func NewHTTPClient(baseURL string, opts Options) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse baseURL: %w", err)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{baseURL: parsed, httpClient: hc, logger: opts.Logger}, nil
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

// do builds and executes a request. A per-request id is attached for
// correlation with server logs. token may be empty for anonymous calls.
func (c *HTTPClient) do(ctx context.Context, op, method, path, token, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnexpected, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	if c.logger != nil {
		c.logger.Debug(ctx, "api request", "op", op, "method", method, "path", path, "request_id", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, connectivityError(op, err)
	}
	return resp, nil
}

// decodeDetail extracts the {"detail": "..."} payload from an error
// response. A missing or malformed body yields "".
func decodeDetail(resp *http.Response) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}

// errorFromResponse classifies a non-2xx response. authSensitive marks
// endpoints where any 4xx means the credentials themselves were rejected.
func errorFromResponse(op string, resp *http.Response, authSensitive bool) *Error {
	detail := decodeDetail(resp)
	e := &Error{Op: op, Status: resp.StatusCode, Detail: detail}

	switch {
	case resp.StatusCode >= 500:
		e.Kind = KindServer
		e.Err = common.ErrorInternal
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || authSensitive:
		e.Kind = KindCredentials
		e.Err = common.ErrorUnauthorized
	default:
		e.Kind = KindValidation
		e.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return e
}

func decodeUser(op string, resp *http.Response) (*models.User, error) {
	var u models.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, &Error{Op: op, Kind: KindUnexpected, Err: fmt.Errorf("decode user: %w", err)}
	}
	return &u, nil
}

// Login exchanges a username/password pair for a bearer token via a
// form-encoded POST, mirroring the OAuth2 password flow the backend exposes.
func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) (string, error) {
	const op = "Login"

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", string(password))

	resp, err := c.do(ctx, op, http.MethodPost, "/auth/token", "", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errorFromResponse(op, resp, true)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &Error{Op: op, Kind: KindUnexpected, Err: fmt.Errorf("decode token: %w", err)}
	}
	if strings.TrimSpace(body.AccessToken) == "" {
		return "", &Error{Op: op, Kind: KindUnexpected, Status: resp.StatusCode, Err: fmt.Errorf("empty access token")}
	}
	return body.AccessToken, nil
}

// Register creates a new account. The created user is returned; no session
// is established by this call.
func (c *HTTPClient) Register(ctx context.Context, data models.RegistrationData) (*models.User, error) {
	const op = "Register"

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnexpected, Err: err}
	}

	resp, err := c.do(ctx, op, http.MethodPost, "/auth/register", "", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(op, resp, false)
	}
	return decodeUser(op, resp)
}

// CurrentUser fetches the user record the token belongs to.
func (c *HTTPClient) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	const op = "CurrentUser"

	resp, err := c.do(ctx, op, http.MethodGet, "/users/me", token, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(op, resp, false)
	}
	return decodeUser(op, resp)
}

// UpdateProfile replaces the editable identity fields and returns the
// server's canonical user record.
func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "UpdateProfile"

	payload, err := json.Marshal(upd)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnexpected, Err: err}
	}

	resp, err := c.do(ctx, op, http.MethodPut, "/users/profile", token, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(op, resp, false)
	}
	return decodeUser(op, resp)
}

// ChangePassword sends the current and new passwords; verification happens
// server-side.
func (c *HTTPClient) ChangePassword(ctx context.Context, token string, current, next []byte) error {
	const op = "ChangePassword"

	payload, err := json.Marshal(map[string]string{
		"password":     string(current),
		"new_password": string(next),
	})
	if err != nil {
		return &Error{Op: op, Kind: KindUnexpected, Err: err}
	}

	resp, err := c.do(ctx, op, http.MethodPut, "/auth/change_password", token, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(op, resp, false)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// UploadProfilePicture uploads the picture as a multipart "file" part and
// returns the stored picture path from the response.
func (c *HTTPClient) UploadProfilePicture(ctx context.Context, token string, filename string, content io.Reader) (string, error) {
	const op = "UploadProfilePicture"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if ct := filex.ImageContentType(filename); ct != "" {
		hdr.Set("Content-Type", ct)
	}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", &Error{Op: op, Kind: KindUnexpected, Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", &Error{Op: op, Kind: KindUnexpected, Err: fmt.Errorf("read picture: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return "", &Error{Op: op, Kind: KindUnexpected, Err: err}
	}

	resp, err := c.do(ctx, op, http.MethodPost, "/users/profile-picture", token, mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errorFromResponse(op, resp, false)
	}

	var body struct {
		ProfilePicture string `json:"profile_picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &Error{Op: op, Kind: KindUnexpected, Err: fmt.Errorf("decode upload response: %w", err)}
	}
	if body.ProfilePicture == "" {
		return "", &Error{Op: op, Kind: KindUnexpected, Status: resp.StatusCode, Err: fmt.Errorf("empty profile_picture")}
	}
	return body.ProfilePicture, nil
}
