package handler

import "github.com/studybridge/apply-platform/internal/core/domain"

type createApplicationRequest struct {
	UniversityID string `json:"university_id" validate:"required"`
	Program      string `json:"program" validate:"required"`
}

type updateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft submitted under_review accepted rejected"`
}

type applicationResponse struct {
	Success     bool                `json:"success"`
	Application *domain.Application `json:"application"`
}

type applicationListResponse struct {
	Success      bool                  `json:"success"`
	Applications []*domain.Application `json:"applications"`
}
