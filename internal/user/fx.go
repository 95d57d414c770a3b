package user

import (
	"github.com/costwatch/costwatch/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(service.NewService),
)
