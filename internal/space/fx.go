package space

import (
	"github.com/unusco/unus/internal/space/repository"
	"github.com/unusco/unus/internal/space/service"
	"go.uber.org/fx"
)

var Module = fx.Module("space.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
