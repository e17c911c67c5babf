package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"egeriactl/internal/config"
	"egeriactl/pkg/logging"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

const maxErrorBody = 512

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// HTTPBackend serves configured functions by calling the platform's REST API.
type HTTPBackend struct {
	baseURL    string
	viewServer string
	userID     string
	httpClient *http.Client
	bindings   map[string]config.CapabilityBinding
}

// NewHTTPBackend creates a backend for the given platform and bindings.
// When platform.Token is set every request carries it as a bearer token.
func NewHTTPBackend(platform config.PlatformConfig, bindings []config.CapabilityBinding) (*HTTPBackend, error) {
	base, err := url.Parse(platform.URL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid platform URL %q", platform.URL)
	}

	var httpClient *http.Client
	if platform.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: platform.Token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = platform.Timeout

	b := &HTTPBackend{
		baseURL:    strings.TrimRight(platform.URL, "/"),
		viewServer: platform.ViewServer,
		userID:     platform.UserID,
		httpClient: httpClient,
		bindings:   make(map[string]config.CapabilityBinding, len(bindings)),
	}
	for _, binding := range bindings {
		if err := validateFunctionName(binding.Function); err != nil {
			return nil, err
		}
		if binding.Path == "" {
			return nil, fmt.Errorf("binding for %s has no path", binding.Function)
		}
		b.bindings[binding.Function] = binding
	}
	return b, nil
}

// SetHTTPClient replaces the client used for requests.
func (b *HTTPBackend) SetHTTPClient(c *http.Client) {
	b.httpClient = c
}

func (b *HTTPBackend) Name() string { return "http" }

func (b *HTTPBackend) Functions() []string {
	return slices.Sorted(maps.Keys(b.bindings))
}

func (b *HTTPBackend) Handler(function string) Handler {
	binding, ok := b.bindings[function]
	if !ok {
		return nil
	}
	return func(ctx context.Context, params map[string]any) (json.RawMessage, error) {
		return b.call(ctx, binding, params)
	}
}

func (b *HTTPBackend) call(ctx context.Context, binding config.CapabilityBinding, params map[string]any) (json.RawMessage, error) {
	path, rest, err := b.expandPath(binding.Path, params)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(binding.Method)
	if method == "" {
		method = http.MethodPost
	}

	endpoint := b.baseURL + path
	var body io.Reader
	if method == http.MethodGet || method == http.MethodDelete {
		if len(rest) > 0 {
			endpoint += "?" + queryString(rest)
		}
	} else {
		data, err := json.Marshal(rest)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logging.Debug("Capability", "%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, truncate(string(data), maxErrorBody))
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s %s returned a non-JSON response", method, path)
	}

	if binding.ElementsKey == "" {
		return data, nil
	}
	elements := gjson.GetBytes(data, binding.ElementsKey)
	if !elements.Exists() {
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(elements.Raw), nil
}

// expandPath fills the placeholders of a path template. It returns the
// expanded path and the parameters not consumed by it.
func (b *HTTPBackend) expandPath(template string, params map[string]any) (string, map[string]any, error) {
	rest := maps.Clone(params)
	if rest == nil {
		rest = map[string]any{}
	}
	var missing []string

	path := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		switch name {
		case "view_server":
			return url.PathEscape(b.viewServer)
		case "user_id":
			return url.PathEscape(b.userID)
		}
		v, ok := rest[name]
		if !ok || v == nil || v == "" {
			missing = append(missing, name)
			return match
		}
		delete(rest, name)
		return url.PathEscape(fmt.Sprint(v))
	})

	if len(missing) > 0 {
		return "", nil, fmt.Errorf("path %s needs parameters: %s", template, strings.Join(missing, ", "))
	}
	return path, rest, nil
}

func queryString(params map[string]any) string {
	values := url.Values{}
	for k, v := range params {
		if v == nil {
			continue
		}
		values.Set(k, fmt.Sprint(v))
	}
	return values.Encode()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
