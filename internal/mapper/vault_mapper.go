package mapper

import (
	"fmt"

	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/model"
)

func ToVaultMediaResponse(m *model.VaultMedia, baseURL string) dto.VaultMediaResponse {
	return dto.VaultMediaResponse{
		Id:        m.ID,
		Type:      m.Type,
		FileName:  m.FileName,
		URL:       fmt.Sprintf("%s/uploads/%s", baseURL, m.StoragePath),
		MimeType:  m.MimeType,
		SizeBytes: m.SizeBytes,
		Processed: m.Processed,
		Favorite:  m.Favorite,
		CreatedAt: m.CreatedAt,
	}
}

func ToVaultListResponse(media []model.VaultMedia, total int64, baseURL string) dto.VaultListResponse {
	res := dto.VaultListResponse{Media: []dto.VaultMediaResponse{}, Total: total}
	for i := range media {
		res.Media = append(res.Media, ToVaultMediaResponse(&media[i], baseURL))
	}
	return res
}
