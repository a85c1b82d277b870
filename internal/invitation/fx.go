package invitation

import (
	"github.com/unusco/unus/internal/invitation/repository"
	"github.com/unusco/unus/internal/invitation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invitation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
