package user

import (
	"github.com/unusco/unus/internal/user/repository"
	"github.com/unusco/unus/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
