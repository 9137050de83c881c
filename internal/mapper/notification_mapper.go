package mapper

import (
	"encoding/json"

	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/model"
)

func ToNotificationResponse(n *model.Notification) dto.NotificationResponse {
	var meta map[string]interface{}
	if len(n.Metadata) > 0 {
		_ = json.Unmarshal(n.Metadata, &meta)
	}
	return dto.NotificationResponse{
		Id:        n.ID,
		TypeCode:  n.TypeCode,
		Title:     n.Title,
		Message:   n.Message,
		Metadata:  meta,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationListResponse(items []model.Notification, total, unread int64) dto.NotificationListResponse {
	res := dto.NotificationListResponse{
		Notifications: []dto.NotificationResponse{},
		Total:         total,
		UnreadCount:   unread,
	}
	for i := range items {
		res.Notifications = append(res.Notifications, ToNotificationResponse(&items[i]))
	}
	return res
}
