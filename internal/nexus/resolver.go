package nexus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/modhoard/nexus-downloader/internal/model"
	"github.com/modhoard/nexus-downloader/internal/nexus/dto"
)

// directDeliveryHost marks URIs served straight from the Nexus CDN.
// These are preferred over every named mirror.
const directDeliveryHost = "filedelivery.nexusmods.com"

// rawBodyLimit caps how much of a non-JSON error body ends up in error
// messages.
const rawBodyLimit = 200

// Client resolves (game, mod, file) triples into temporary signed
// download URIs via the Nexus Mods v1 API.
//
// Example:
//
//	client := nexus.NewClient("https://api.nexusmods.com", apiKey, 60*time.Second, logger)
//	uri, err := client.ResolveLink(ctx, req)
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a resolver Client. The timeout bounds the whole
// request, including reading the body.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ResolveLink asks the API for the download locations of req and picks
// one usable URI.
//
// The game domain is normalized before the request is built. Failure
// modes, in the order they are checked:
//   - transport failure: model.ErrNetwork
//   - non-2xx status: model.ErrAPI, including the status code and the
//     "message" field of a JSON error body (or a raw body prefix)
//   - success with a non-JSON content type: model.ErrAPI
//   - body that is not a non-empty candidate list: model.ErrNoLinks
//   - candidates present but none usable: model.ErrNoUsableLink
func (c *Client) ResolveLink(ctx context.Context, req model.DownloadRequest) (string, error) {
	domain := NormalizeDomain(req.GameDomain)
	endpoint := fmt.Sprintf("%s/v1/games/%s/mods/%d/files/%d/download_link.json",
		c.baseURL, domain, req.ModID, req.FileID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", model.ErrInternal, err)
	}
	httpReq.Header.Set("apikey", c.apiKey)

	c.logger.Debug("requesting download link",
		zap.String("domain", domain),
		zap.Int("mod", req.ModID),
		zap.Int("file", req.FileID),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", model.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", model.ErrAPI, resp.StatusCode, apiErrorMessage(body))
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return "", fmt.Errorf("%w: unexpected content type %q", model.ErrAPI, contentType)
	}

	var links []dto.JSONLink
	if err := json.Unmarshal(body, &links); err != nil {
		return "", fmt.Errorf("%w: response is not a link list: %v", model.ErrNoLinks, err)
	}
	if len(links) == 0 {
		return "", fmt.Errorf("%w: empty link list for %s", model.ErrNoLinks, req)
	}

	return c.selectURI(links)
}

// selectURI picks one URI from the candidate list, in priority order:
//
//  1. first candidate whose URI is on the Nexus CDN host
//  2. first candidate labelled "Direct Download" or "Primary Download"
//  3. first candidate with any URI at all
//
// CDN URIs win regardless of their position in the list.
func (c *Client) selectURI(links []dto.JSONLink) (string, error) {
	var valid []dto.JSONLink
	for _, link := range links {
		if !link.Valid() {
			c.logger.Warn("skipping malformed link candidate",
				zap.String("uri", link.URI),
				zap.String("name", link.Name),
			)
			continue
		}
		valid = append(valid, link)
	}

	for _, link := range valid {
		if strings.Contains(link.URI, directDeliveryHost) {
			return link.URI, nil
		}
	}

	for _, link := range valid {
		if link.ShortName == "Direct Download" || link.Name == "Primary Download" {
			return link.URI, nil
		}
	}

	// Last resort: a URI is enough, even on candidates missing a name.
	for _, link := range links {
		if link.URI != "" {
			return link.URI, nil
		}
	}

	return "", fmt.Errorf("%w: %d candidates, none with a URI", model.ErrNoUsableLink, len(links))
}

// apiErrorMessage extracts the "message" field from a JSON error body,
// falling back to a raw prefix when the body is not JSON.
func apiErrorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}

	raw := string(body)
	if len(raw) > rawBodyLimit {
		raw = raw[:rawBodyLimit] + "..."
	}
	return raw
}
