package http

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
)

// newTestApp wires the real middleware stack and routes with nil services.
// Requests below fail id/kind validation at the handler edge, before any
// service is touched.
func newTestApp() *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:        handlers.NewHealthHandler(nil, nil),
		Auth:          handlers.NewAuthHandler(nil, config.AuthConfig{CookieName: "token"}),
		Tickets:       handlers.NewWorkItemsHandler(nil, domain.KindTicket),
		Assets:        handlers.NewWorkItemsHandler(nil, domain.KindAsset),
		Discussions:   handlers.NewDiscussionHandler(nil),
		Notifications: handlers.NewNotificationsHandler(nil),
		Session:       auth.NewSessionMiddleware(nil, nil, nil, "token"),
	})
	return app
}

func TestMalformedIDsRejected(t *testing.T) {
	goodID := "66666666-6666-6666-6666-666666666666"

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		wantMessage string
	}{
		{
			name:        "junk raised_by in create",
			method:      "POST",
			path:        "/tickets/",
			body:        `{"request_type":"VPN Issue","raised_by":"not-a-uuid"}`,
			wantMessage: "Invalid raised_by",
		},
		{
			name:        "junk item id in accept",
			method:      "POST",
			path:        "/tickets/not-a-uuid/accept",
			body:        `{"accepted_by":"` + goodID + `"}`,
			wantMessage: "Invalid ticket ID",
		},
		{
			name:        "junk accepted_by in accept",
			method:      "POST",
			path:        "/assets/" + goodID + "/accept",
			body:        `{"accepted_by":"junk"}`,
			wantMessage: "Invalid accepted_by",
		},
		{
			name:        "junk item id in complete",
			method:      "POST",
			path:        "/assets/12345/complete",
			body:        `{"completed_by":"` + goodID + `"}`,
			wantMessage: "Invalid asset ID",
		},
		{
			name:        "junk userId in raised filter",
			method:      "GET",
			path:        "/tickets/raised/junk",
			wantMessage: "Invalid userId",
		},
		{
			name:        "junk userId in solved filter",
			method:      "GET",
			path:        "/assets/solved/junk",
			wantMessage: "Invalid userId",
		},
		{
			name:        "unknown status filter",
			method:      "GET",
			path:        "/tickets/status/open",
			wantMessage: "Invalid status",
		},
		{
			name:        "unknown discussion kind",
			method:      "GET",
			path:        "/discussion/bogus/" + goodID,
			wantMessage: "Invalid kind (ticket/asset)",
		},
		{
			name:        "junk discussion item id",
			method:      "GET",
			path:        "/discussion/ticket/junk",
			wantMessage: "Invalid id",
		},
		{
			name:        "junk userId in discussion message",
			method:      "POST",
			path:        "/discussion/ticket/" + goodID + "/message",
			body:        `{"userId":"junk","message":"hi"}`,
			wantMessage: "Invalid userId",
		},
		{
			name:        "junk userId in deadline scan",
			method:      "GET",
			path:        "/notifications/deadline/junk",
			wantMessage: "Invalid userId",
		},
		{
			name:        "junk userId in overdue scan",
			method:      "GET",
			path:        "/notifications/ended/junk",
			wantMessage: "Invalid userId",
		},
	}

	app := newTestApp()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var payload struct {
				Message string `json:"message"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
			assert.Equal(t, tc.wantMessage, payload.Message)
		})
	}
}
