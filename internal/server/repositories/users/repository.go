package users

import (
	"context"

	"github.com/dmitrijs2005/cardsync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListAdminUsernames(ctx context.Context) ([]string, error)
}
