package group

import (
	"github.com/unusco/unus/internal/group/repository"
	"github.com/unusco/unus/internal/group/service"
	"go.uber.org/fx"
)

var Module = fx.Module("group.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
