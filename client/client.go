// Package client is a typed HTTP client for the pharmacy API, used by the
// command line tool and the check wizards.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pillflow-backend/models"
	"pillflow-backend/services"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type errorBody struct {
	Error string `json:"error"`
}

type createdBody struct {
	ID uuid.UUID `json:"id"`
}

type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func New(baseURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	if token != "" {
		rc.SetAuthToken(token)
	}
	return &Client{http: rc, logger: logger}
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	return c.doQuery(ctx, method, path, nil, body, result)
}

// doQuery sends one request. Empty query values are dropped.
func (c *Client) doQuery(ctx context.Context, method, path string, query map[string]string, body, result interface{}) error {
	var failure errorBody
	req := c.http.R().SetContext(ctx).SetError(&failure)
	for k, v := range query {
		if v != "" {
			req.SetQueryParam(k, v)
		}
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error("api call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := failure.Error
		if msg == "" {
			msg = resp.Status()
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}

func (c *Client) create(ctx context.Context, path string, body interface{}) (uuid.UUID, error) {
	var created createdBody
	if err := c.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}

// CurrentUser returns nil when the server does not know the caller.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user *models.User
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) ListCustomers(ctx context.Context, search, status string) ([]models.Customer, error) {
	var customers []models.Customer
	query := map[string]string{"search": search, "status": status}
	err := c.doQuery(ctx, http.MethodGet, "/api/customers", query, nil, &customers)
	return customers, err
}

func (c *Client) CreateCustomer(ctx context.Context, input services.CustomerInput) (uuid.UUID, error) {
	return c.create(ctx, "/api/customers", input)
}

func (c *Client) ListMedications(ctx context.Context, customerID uuid.UUID) ([]models.Medication, error) {
	var medications []models.Medication
	err := c.do(ctx, http.MethodGet, "/api/customers/"+customerID.String()+"/medications", nil, &medications)
	return medications, err
}

func (c *Client) CreateMedication(ctx context.Context, input services.CreateMedicationInput) (uuid.UUID, error) {
	return c.create(ctx, "/api/medications", input)
}

func (c *Client) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := c.do(ctx, http.MethodGet, "/api/team-members", nil, &members)
	return members, err
}

func (c *Client) CreateTeamMember(ctx context.Context, input services.TeamMemberInput) (uuid.UUID, error) {
	return c.create(ctx, "/api/team-members", input)
}

func (c *Client) CreatePackCheck(ctx context.Context, input services.CreatePackCheckInput) (uuid.UUID, error) {
	return c.create(ctx, "/api/pack-checks", input)
}

func (c *Client) ListPackChecks(ctx context.Context) ([]services.PackCheckView, error) {
	var checks []services.PackCheckView
	err := c.do(ctx, http.MethodGet, "/api/pack-checks", nil, &checks)
	return checks, err
}

func (c *Client) CheckPackExists(ctx context.Context, customerID uuid.UUID, websterPackID string) (*services.PackExistence, error) {
	var res services.PackExistence
	query := map[string]string{"customerId": customerID.String(), "websterPackId": websterPackID}
	if err := c.doQuery(ctx, http.MethodGet, "/api/pack-checks/exists", query, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateScanOut(ctx context.Context, input services.CreateScanOutInput) (uuid.UUID, error) {
	return c.create(ctx, "/api/scan-outs", input)
}

func (c *Client) ListScanOuts(ctx context.Context) ([]services.ScanOutView, error) {
	var scanOuts []services.ScanOutView
	err := c.do(ctx, http.MethodGet, "/api/scan-outs", nil, &scanOuts)
	return scanOuts, err
}

func (c *Client) UpdateScanOutStatus(ctx context.Context, id uuid.UUID, status models.ScanOutStatus) error {
	body := map[string]models.ScanOutStatus{"status": status}
	return c.do(ctx, http.MethodPut, "/api/scan-outs/"+id.String()+"/status", body, nil)
}

func (c *Client) Dashboard(ctx context.Context) (*services.DashboardStats, error) {
	var stats services.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ExportHistory downloads the history workbook.
func (c *Client) ExportHistory(ctx context.Context) ([]byte, error) {
	var failure errorBody
	resp, err := c.http.R().SetContext(ctx).SetError(&failure).
		SetHeader("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet").
		Get("/api/exports/history.xlsx")
	if err != nil {
		return nil, fmt.Errorf("export history: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Message: failure.Error}
	}
	return resp.Body(), nil
}
