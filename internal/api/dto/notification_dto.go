package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

// DeadlineNotificationResponse is a view annotated with deadline arithmetic.
type DeadlineNotificationResponse struct {
	WorkItemViewResponse
	DeadlineType domain.DeadlineType `json:"deadlineType"`
	MinutesLeft  int                 `json:"minutesLeft"`
	IsOverdue    bool                `json:"isOverdue"`
}

// NotificationListResponse is the envelope for both notification endpoints.
type NotificationListResponse struct {
	Mode  string                         `json:"mode"`
	Role  domain.Role                    `json:"role"`
	Items []DeadlineNotificationResponse `json:"items"`
}

// NewDeadlineNotificationResponses maps the scan result.
func NewDeadlineNotificationResponses(items []domain.DeadlineNotification) []DeadlineNotificationResponse {
	out := make([]DeadlineNotificationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, DeadlineNotificationResponse{
			WorkItemViewResponse: NewWorkItemViewResponse(item.WorkItemView),
			DeadlineType:         item.DeadlineType,
			MinutesLeft:          item.MinutesLeft,
			IsOverdue:            item.IsOverdue,
		})
	}
	return out
}
