package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const entitlementRequestTimeout = 10 * time.Second

// EntitlementSource answers which premium apps the current user may run.
type EntitlementSource interface {
	FetchEntitlements(ctx context.Context) ([]Entitlement, error)
}

// EntitlementClient fetches entitlements from the account service.
type EntitlementClient struct {
	client *retryablehttp.Client
	url    string
	token  string
}

// NewEntitlementClient creates a client for the given endpoint. token may
// be empty for anonymous sessions.
func NewEntitlementClient(url, token string) *EntitlementClient {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.HTTPClient.Timeout = entitlementRequestTimeout
	client.Logger = nil
	return &EntitlementClient{client: client, url: url, token: token}
}

// FetchEntitlements retrieves the entitlement list for the current user.
func (ec *EntitlementClient) FetchEntitlements(ctx context.Context) ([]Entitlement, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, ec.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building entitlement request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if ec.token != "" {
		req.Header.Set("Authorization", "Bearer "+ec.token)
	}

	resp, err := ec.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching entitlements: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("entitlement service returned HTTP %d", resp.StatusCode)
	}

	var entitlements []Entitlement
	if err := json.NewDecoder(resp.Body).Decode(&entitlements); err != nil {
		return nil, fmt.Errorf("decoding entitlements: %w", err)
	}
	return entitlements, nil
}

// PremiumAllowed reports whether a catalog entry may be launched given the
// fetched entitlements. Non-premium apps are always allowed; premium apps
// need an active entitlement for their id.
func PremiumAllowed(entry AppCatalogEntry, entitlements []Entitlement) bool {
	if !entry.Premium {
		return true
	}
	for _, e := range entitlements {
		if e.AppID == entry.ID && e.Active {
			return true
		}
	}
	return false
}
