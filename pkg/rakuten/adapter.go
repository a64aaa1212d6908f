package rakuten

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samvad-hq/rakuten-affiliate/pkg/httpclient"
)

const tokenEndpoint = "/token"

// Credentials identify the calling account. They do not change for the lifetime of an adapter.
type Credentials struct {
	ClientID     string
	ClientSecret string
	AccountID    int64
}

func (c Credentials) validate() error {
	if strings.TrimSpace(c.ClientID) == "" {
		return &ValidationError{Field: "client_id", Reason: "is required"}
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		return &ValidationError{Field: "client_secret", Reason: "is required"}
	}
	if c.AccountID <= 0 {
		return &ValidationError{Field: "account_id", Reason: "must be a positive number"}
	}
	return nil
}

// Request is one call issued through the adapter.
type Request struct {
	Method   string
	Endpoint string
	Params   url.Values
	// Body is sent form-encoded unless JSONBody is set, in which case it is marshalled as JSON.
	Body     any
	JSONBody bool
	Format   Format
}

// RestAdapter owns the host, credentials and bearer token, and turns HTTP round trips into Results.
// It holds mutable token state without locking; use one instance from one goroutine at a time.
type RestAdapter struct {
	host        string
	creds       Credentials
	tokenKey    string
	accessToken string
	client      httpclient.Client
	log         Logger
}

// NewRestAdapter validates the credentials and builds an adapter. It performs no network I/O.
func NewRestAdapter(host string, creds Credentials, opts ...Option) (*RestAdapter, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	if strings.TrimSpace(host) != "" {
		o.host = host
	}

	return &RestAdapter{
		host:     strings.TrimRight(strings.TrimSpace(o.host), "/"),
		creds:    creds,
		tokenKey: base64.StdEncoding.EncodeToString([]byte(creds.ClientID + ":" + creds.ClientSecret)),
		client:   o.httpClient,
		log:      o.log,
	}, nil
}

// Host returns the base URL requests are sent to.
func (a *RestAdapter) Host() string { return a.host }

// AccountID returns the scope the adapter authenticates for.
func (a *RestAdapter) AccountID() int64 { return a.creds.AccountID }

// Token returns the current bearer token, or "" before authentication.
func (a *RestAdapter) Token() string { return a.accessToken }

// SetToken installs a bearer token obtained elsewhere.
func (a *RestAdapter) SetToken(token string) { a.accessToken = strings.TrimSpace(token) }

// GetToken exchanges the client credentials for a bearer token and stores it.
// The stored token is left unchanged when the exchange fails.
func (a *RestAdapter) GetToken(ctx context.Context) (*Result, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + a.tokenKey,
		"Content-Type":  "application/x-www-form-urlencoded",
	}
	form := url.Values{"scope": {strconv.FormatInt(a.creds.AccountID, 10)}}

	resp, err := a.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		URL:     a.host + tokenEndpoint,
		Headers: headers,
		Form:    form,
	})
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("token request: %w", err)}
	}

	result, err := a.classify(http.MethodPost, tokenEndpoint, FormatJSON, resp)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			return nil, &AuthError{StatusCode: reqErr.StatusCode, Payload: reqErr.Payload}
		}
		return nil, &AuthError{StatusCode: resp.StatusCode(), Err: err}
	}

	payload, _ := result.Map()
	token, _ := payload["access_token"].(string)
	if strings.TrimSpace(token) == "" {
		return nil, &AuthError{StatusCode: result.StatusCode, Payload: result.Data, Err: errors.New("response has no access_token")}
	}

	a.accessToken = token
	a.log.InfoObj("rakuten token acquired", "rakuten_auth", map[string]any{
		"account_id": a.creds.AccountID,
		"status":     result.StatusCode,
	})
	return result, nil
}

// Get issues a GET request expecting the given format.
func (a *RestAdapter) Get(ctx context.Context, endpoint string, params url.Values, format Format) (*Result, error) {
	return a.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Params: params, Format: format})
}

// Post issues a POST request. body is form-encoded unless jsonBody is set.
func (a *RestAdapter) Post(ctx context.Context, endpoint string, params url.Values, body any, jsonBody bool, format Format) (*Result, error) {
	return a.Do(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		Params:   params,
		Body:     body,
		JSONBody: jsonBody,
		Format:   format,
	})
}

// Do issues an authenticated request and classifies the outcome.
func (a *RestAdapter) Do(ctx context.Context, req Request) (*Result, error) {
	if a.accessToken == "" {
		return nil, ErrAuthNotReady
	}
	if !req.Format.valid() {
		return nil, &ValidationError{Field: "format", Reason: "is required"}
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	out := httpclient.Request{
		Method:  method,
		URL:     a.host + normalizeEndpoint(req.Endpoint),
		Headers: map[string]string{"Authorization": "Bearer " + a.accessToken},
		Query:   req.Params,
	}
	if req.Body != nil {
		if req.JSONBody {
			out.JSONBody = req.Body
		} else {
			form, err := formValues(req.Body)
			if err != nil {
				return nil, err
			}
			out.Form = form
		}
	}

	a.log.DebugObj("rakuten request", "rakuten_request", map[string]any{
		"method":   method,
		"endpoint": req.Endpoint,
		"format":   req.Format.String(),
	})

	resp, err := a.client.Do(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.Endpoint, err)
	}
	return a.classify(method, req.Endpoint, req.Format, resp)
}

// classify decodes the body and splits 2xx from everything else. It is the only place a status code
// is judged.
func (a *RestAdapter) classify(method, endpoint string, format Format, resp httpclient.Response) (*Result, error) {
	status := resp.StatusCode()
	body := resp.Body()
	data, decodeErr := decodeBody(format, body)

	a.log.DebugObj("rakuten response", "rakuten_response", map[string]any{
		"method":   method,
		"endpoint": endpoint,
		"status":   status,
		"bytes":    len(body),
	})

	if status < 200 || status > 299 {
		payload := data
		if decodeErr != nil {
			payload = string(body)
		}
		return nil, &RequestError{Method: method, Endpoint: endpoint, StatusCode: status, Payload: payload}
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return &Result{StatusCode: status, Message: reasonPhrase(resp), Data: data}, nil
}

func reasonPhrase(resp httpclient.Response) string {
	code := strconv.Itoa(resp.StatusCode())
	if reason := strings.TrimSpace(strings.TrimPrefix(resp.Status(), code)); reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode())
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return endpoint
}

func formValues(body any) (url.Values, error) {
	switch typed := body.(type) {
	case url.Values:
		return typed, nil
	case map[string]string:
		out := make(url.Values, len(typed))
		for k, v := range typed {
			out.Set(k, v)
		}
		return out, nil
	case map[string]any:
		out := make(url.Values, len(typed))
		for k, v := range typed {
			if v == nil {
				continue
			}
			out.Set(k, fmt.Sprint(v))
		}
		return out, nil
	default:
		return nil, &ValidationError{Field: "body", Reason: fmt.Sprintf("unsupported form body type %T", body)}
	}
}
