package dto

import (
	"time"

	"propbill.app/server/internal/model"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"max=255"`
}

type RenameWorkspaceRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

type WorkspaceResponse struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func ToWorkspaceResponse(ws *model.Workspace) *WorkspaceResponse {
	return &WorkspaceResponse{
		ID:        ws.ID,
		Name:      ws.Name,
		CreatedAt: ws.CreatedAt,
	}
}

func ToWorkspaceResponses(list []model.Workspace) []WorkspaceResponse {
	out := make([]WorkspaceResponse, 0, len(list))
	for i := range list {
		out = append(out, *ToWorkspaceResponse(&list[i]))
	}
	return out
}
