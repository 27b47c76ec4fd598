package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// Client is a thin transport wrapper around the external recipe provider.
// Every request carries the API key and includeNutrition=false, and is bounded
// by the configured timeout. The client never retries; retry policy belongs to
// the caller, and no current call site wants one.
type Client struct {
	client *resty.Client
}

// NewClient creates a provider client.
func NewClient(cfg *config.ProviderConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetQueryParam("apiKey", cfg.APIKey).
		SetQueryParam("includeNutrition", "false").
		SetHeader("Accept", "application/json")

	return &Client{client: client}
}

// GetRecipeInformation fetches one raw recipe payload by id.
func (c *Client) GetRecipeInformation(ctx context.Context, id int64) (*Recipe, error) {
	var out Recipe
	if err := c.get(ctx, fmt.Sprintf("/%d/information", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecipesBulk fetches raw payloads for several recipe ids in one call.
func (c *Client) GetRecipesBulk(ctx context.Context, ids []int64) ([]Recipe, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	var out []Recipe
	if err := c.get(ctx, "/informationBulk", map[string]string{"ids": strings.Join(parts, ",")}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRandomRecipes fetches a batch of random raw recipe payloads.
func (c *Client) GetRandomRecipes(ctx context.Context, number int) ([]Recipe, error) {
	var out RandomResponse
	if err := c.get(ctx, "/random", map[string]string{"number": strconv.Itoa(number)}, &out); err != nil {
		return nil, err
	}
	return out.Recipes, nil
}

// SearchRecipes runs a complex search. Recipe information is requested inline
// so result rows do not need follow-up per-id calls.
func (c *Client) SearchRecipes(ctx context.Context, params SearchParams) ([]Recipe, error) {
	q := map[string]string{
		"query":                params.Query,
		"addRecipeInformation": "true",
		"fillIngredients":      "true",
	}
	if params.Cuisines != "" {
		q["cuisines"] = params.Cuisines
	}
	if params.Diet != "" {
		q["diet"] = params.Diet
	}
	if params.Intolerances != "" {
		q["intolerances"] = params.Intolerances
	}
	var out SearchResponse
	if err := c.get(ctx, "/complexSearch", q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	common.LogProviderCall(path, time.Since(start), err)

	if err != nil {
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return common.NewProviderTimeout(path, err)
		}
		return common.NewProviderError(0, err.Error(), err)
	}

	if resp.IsError() {
		return common.NewProviderError(resp.StatusCode(), providerMessage(resp.Body()), nil)
	}

	if err := common.ParseJSONBytes(resp.Body(), out); err != nil {
		return common.NewProviderError(resp.StatusCode(), "malformed provider response", err)
	}
	return nil
}

// providerMessage pulls the human-readable message out of a provider error
// body, falling back to a truncated raw body.
func providerMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := common.ParseJSONBytes(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
