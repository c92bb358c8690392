package user

import (
	"github.com/google/wire"

	"github.com/tair/commodity-tracker/internal/user/domain"
	"github.com/tair/commodity-tracker/internal/user/repository"
	"github.com/tair/commodity-tracker/internal/user/usecase/command"
	"github.com/tair/commodity-tracker/internal/user/usecase/query"
)

// ProvideUserRepository provides the demo accounts behind a tracing decorator
func ProvideUserRepository() (domain.UserRepository, error) {
	repo, err := repository.NewDemoUserRepository()
	if err != nil {
		return nil, err
	}
	return repository.NewTracingUserRepository(repo), nil
}

var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var HandlerSet = wire.NewSet(
	command.NewLoginUserHandler,
	query.NewGetUserHandler,
)
