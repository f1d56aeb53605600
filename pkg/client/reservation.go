package client

import (
	"context"
	"fmt"
	"net/url"
)

type ReservationClient struct {
	httpClient *HttpClient
}

func NewReservationClient(baseUrl string) *ReservationClient {
	return &ReservationClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

// As returns a client acting on behalf of userID.
func (c *ReservationClient) As(userID string, admin bool) *ReservationClient {
	return &ReservationClient{httpClient: c.httpClient.AsUser(userID, admin)}
}

func (c *ReservationClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/reservations", body)
}

// List accepts any of status, facility_id, requester_id, from, to, limit and offset.
func (c *ReservationClient) List(ctx context.Context, query url.Values) (*Response, error) {
	path := "/api/v1/reservations"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.httpClient.GET(ctx, path)
}

func (c *ReservationClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/reservations/id/"+url.PathEscape(id))
}

func (c *ReservationClient) Approve(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/reservations/id/"+url.PathEscape(id)+"/approve", nil)
}

func (c *ReservationClient) Reject(ctx context.Context, id, reason string) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/reservations/id/"+url.PathEscape(id)+"/reject", map[string]string{"reason": reason})
}

func (c *ReservationClient) Cancel(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/reservations/id/"+url.PathEscape(id)+"/cancel", nil)
}

func (c *ReservationClient) Availability(ctx context.Context, facilityID, date string) (*Response, error) {
	path := fmt.Sprintf("/api/v1/facilities/%s/availability?date=%s", url.PathEscape(facilityID), url.QueryEscape(date))
	return c.httpClient.GET(ctx, path)
}

func (c *ReservationClient) WaitForHealthy(ctx context.Context) error {
	return c.httpClient.WaitForHealthy(ctx, defaultHealthWait)
}
