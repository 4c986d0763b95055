package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/pkg/apperrors"
	"github.com/yigit/unimanage/internal/pkg/metrics"
)

const denialReasonPolicy = "policy"

// PolicyGuard checks route policies against the ability of the current profile
type PolicyGuard struct {
	abilities *authz.AbilityFactory
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewPolicyGuard creates a new PolicyGuard. m may be nil.
func NewPolicyGuard(abilities *authz.AbilityFactory, m *metrics.Metrics, logger zerolog.Logger) *PolicyGuard {
	return &PolicyGuard{
		abilities: abilities,
		metrics:   m,
		logger:    logger,
	}
}

// CheckPolicies aborts with 403 unless every handler allows the request.
// Requests without a profile get the zero-grant ability.
func (g *PolicyGuard) CheckPolicies(handlers ...authz.PolicyHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := CurrentProfile(c)
		ability := g.abilities.CreateForUser(profile)
		c.Set(ContextAbilityKey, ability)

		if !authz.EvaluatePolicies(ability, handlers...) {
			event := g.logger.Warn().
				Str("method", c.Request.Method).
				Str("path", c.FullPath()).
				Str("reason", denialReasonPolicy)
			if profile != nil {
				event = event.Int64("profileID", profile.ID).Str("role", string(profile.Role))
			}
			event.Msg("Request denied by policy")

			g.metrics.ObserveDenial(denialReasonPolicy)
			HandleAPIError(c, apperrors.NewForbiddenError(authz.ForbiddenMessage, apperrors.CodePolicyDenied))
			return
		}

		c.Next()
	}
}
