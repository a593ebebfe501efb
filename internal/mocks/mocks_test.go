package mocks

import (
	"github.com/pageza/recipe-share/backend/internal/service"
)

var (
	_ service.IRecipeService   = (*MockRecipeService)(nil)
	_ service.IMutationService = (*MockMutationService)(nil)
	_ service.IScalingService  = (*MockScalingService)(nil)
	_ service.IAuthService     = (*MockAuthService)(nil)
	_ service.IProfileService  = (*MockProfileService)(nil)
)
