package mapper

import (
	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/model"
)

func ToUserDTO(u *model.User) dto.UserDTO {
	res := dto.UserDTO{
		Id:       u.Id,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     string(u.Role),
	}
	if u.AvatarURL != nil {
		res.AvatarURL = *u.AvatarURL
	}
	if u.SelectedTitle != nil {
		res.SelectedTitle = *u.SelectedTitle
	}
	return res
}

// ToUserGatePayload is the map staged into the gate sequencer on login and
// committed to the client when the transition ends.
func ToUserGatePayload(u *model.User) map[string]interface{} {
	d := ToUserDTO(u)
	payload := map[string]interface{}{
		"id":        d.Id.String(),
		"email":     d.Email,
		"full_name": d.FullName,
		"role":      d.Role,
	}
	if d.AvatarURL != "" {
		payload["avatar_url"] = d.AvatarURL
	}
	if d.SelectedTitle != "" {
		payload["selected_title"] = d.SelectedTitle
	}
	return payload
}
