package repository

import (
	"context"

	"ipam-control-plane/internal/directory/domain"
)

// Repository is the room/company directory. The workflow only reads it; Create* exist for provisioning.
type Repository interface {
	FindCompanyWithRoom(ctx context.Context, companyID string) (*domain.CompanyWithRoom, error)
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	CreateRoom(ctx context.Context, r *domain.Room) error
	CreateCompany(ctx context.Context, c *domain.Company) error
	SetCompanyRoom(ctx context.Context, companyID string, roomID *string) (bool, error)
}
