package mapper

import (
	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/model"
)

func ToCapsuleResponse(c *model.Capsule) dto.CapsuleResponse {
	res := dto.CapsuleResponse{
		Id:          c.ID,
		Title:       c.Title,
		Message:     c.Message,
		Theme:       c.Theme,
		Status:      string(c.Status),
		SealedAt:    c.SealedAt,
		DeliverAt:   c.DeliverAt,
		DeliveredAt: c.DeliveredAt,
	}
	for _, m := range c.Media {
		res.Media = append(res.Media, dto.CapsuleMediaDTO{
			Id:           m.ID,
			VaultMediaId: m.VaultMediaID,
			Type:         m.Type,
			StoragePath:  m.StoragePath,
			Position:     m.Position,
		})
	}
	for _, r := range c.Recipients {
		res.Recipients = append(res.Recipients, dto.CapsuleRecipientDTO{
			Id:       r.ID,
			Email:    r.Email,
			OpenedAt: r.OpenedAt,
		})
	}
	return res
}

func ToCapsuleListResponse(capsules []model.Capsule, total int64) dto.CapsuleListResponse {
	res := dto.CapsuleListResponse{Capsules: []dto.CapsuleResponse{}, Total: total}
	for i := range capsules {
		res.Capsules = append(res.Capsules, ToCapsuleResponse(&capsules[i]))
	}
	return res
}

func ToEchoResponse(e *model.Echo) dto.EchoResponse {
	return dto.EchoResponse{
		Id:           e.ID,
		CapsuleId:    e.CapsuleID,
		SenderName:   e.SenderName,
		EchoType:     string(e.EchoType),
		EchoContent:  e.EchoContent,
		CapsuleTitle: e.CapsuleTitle,
		Read:         e.Read,
		CreatedAt:    e.CreatedAt,
	}
}
