// Package freshdesk is a small client for the helpdesk REST API.
package freshdesk

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/supportops/ticketsync/internal/config"
	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/paginate"
)

const (
	ticketsPath   = "/api/v2/tickets"
	agentPath     = "/api/v2/agents/{id}"
	companiesPath = "/api/v2/companies"
	// The API accepts any password when the key is used as the username.
	basicAuthPassword = "X"
	maxPerPage        = 100
	jsonContentType   = "application/json"
)

// APIError is returned for non-2xx responses.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("freshdesk %s %s: status=%d %s", e.Method, e.Path, e.Status, body)
}

// StatusCode returns the HTTP status of the failed response.
func (e *APIError) StatusCode() int {
	return e.Status
}

// Client wraps a resty client configured for one helpdesk account.
type Client struct {
	http      *resty.Client
	portalURL string
	perPage   int
	logger    *zap.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg config.FreshdeskConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	perPage := cfg.PerPage
	if perPage <= 0 || perPage > maxPerPage {
		perPage = maxPerPage
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	httpClient := resty.New().
		SetBaseURL(base).
		SetBasicAuth(cfg.APIKey, basicAuthPassword).
		SetTimeout(cfg.Timeout()).
		SetHeader("Accept", jsonContentType)
	return &Client{http: httpClient, portalURL: base, perPage: perPage, logger: logger}
}

// TicketURL returns the agent portal link for a ticket.
func (c *Client) TicketURL(id int64) string {
	return c.portalURL + "/support/tickets/" + strconv.FormatInt(id, 10)
}

// ListCompanyTickets returns every ticket of a company, following page
// numbers until a short page is returned.
func (c *Client) ListCompanyTickets(ctx context.Context, companyID string) ([]domain.HelpdeskTicket, error) {
	tickets, err := paginate.Collect(ctx, pageFetcher[domain.HelpdeskTicket](c, ticketsPath, map[string]string{"company_id": companyID}))
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched helpdesk tickets", zap.String("company_id", companyID), zap.Int("count", len(tickets)))
	return tickets, nil
}

// ListCompanies returns every company visible to the API key.
func (c *Client) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return paginate.Collect(ctx, pageFetcher[domain.Company](c, companiesPath, nil))
}

// GetAgent fetches one agent by id.
func (c *Client) GetAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	var agent domain.Agent
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetResult(&agent).
		Get(agentPath)
	if err != nil {
		return nil, fmt.Errorf("freshdesk get agent %d: %w", id, err)
	}
	if resp.IsError() {
		return nil, &APIError{Method: "GET", Path: resp.Request.URL, Status: resp.StatusCode(), Body: resp.String()}
	}
	return &agent, nil
}

// request starts a call whose body is always decoded as JSON, whatever
// Content-Type the server labels it with. A 2xx body that is not JSON is
// an error rather than an empty result.
func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		ForceContentType(jsonContentType)
}

// pageFetcher loads page-numbered list endpoints. The zero cursor is page 1;
// a page shorter than perPage ends the listing.
func pageFetcher[T any](c *Client, path string, params map[string]string) paginate.Fetcher[int, T] {
	return func(ctx context.Context, cursor int) (paginate.Page[int, T], error) {
		page := cursor
		if page < 1 {
			page = 1
		}
		var items []T
		resp, err := c.request(ctx).
			SetQueryParams(params).
			SetQueryParam("page", strconv.Itoa(page)).
			SetQueryParam("per_page", strconv.Itoa(c.perPage)).
			SetResult(&items).
			Get(path)
		if err != nil {
			return paginate.Page[int, T]{}, fmt.Errorf("freshdesk GET %s page %d: %w", path, page, err)
		}
		if resp.IsError() {
			return paginate.Page[int, T]{}, &APIError{Method: "GET", Path: path, Status: resp.StatusCode(), Body: resp.String()}
		}
		return paginate.Page[int, T]{
			Items: items,
			Next:  page + 1,
			More:  len(items) == c.perPage,
		}, nil
	}
}
