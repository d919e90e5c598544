package dto

import "propbill.app/server/internal/model"

type UserResponse struct {
	ID              int64   `json:"id,string"`
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
	GmailAuthorized bool    `json:"gmail_authorized"`
}

func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		AvatarURL:       user.AvatarURL,
		GmailAuthorized: user.GmailAuthorized(),
	}
}
