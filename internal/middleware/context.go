package middleware

import (
	"github.com/gin-gonic/gin"
	authz "github.com/yigit/unimanage/internal/app/auth"
	"github.com/yigit/unimanage/internal/app/models"
	"github.com/yigit/unimanage/internal/pkg/metrics"
)

// Keys under which the middleware chain stores request state
const (
	ContextProfileKey = "profile"
	ContextAbilityKey = "ability"
	contextMetricsKey = "metrics"
)

// CurrentProfile returns the authenticated profile, or nil on public routes
func CurrentProfile(c *gin.Context) *models.Profile {
	value, exists := c.Get(ContextProfileKey)
	if !exists {
		return nil
	}
	profile, _ := value.(*models.Profile)
	return profile
}

// CurrentAbility returns the ability computed by the policy guard. Without one
// the zero-grant ability is returned.
func CurrentAbility(c *gin.Context) authz.Ability {
	value, exists := c.Get(ContextAbilityKey)
	if !exists {
		return authz.Ability{}
	}
	ability, _ := value.(authz.Ability)
	return ability
}

func currentMetrics(c *gin.Context) *metrics.Metrics {
	value, exists := c.Get(contextMetricsKey)
	if !exists {
		return nil
	}
	m, _ := value.(*metrics.Metrics)
	return m
}
