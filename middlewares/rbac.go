package middlewares

import (
	"fmt"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

var defaultPolicies = [][]string{
	{"admin", "leaderboard", "recompute"},
}

var enforcer *casbin.Enforcer

// InitCasbin builds the RBAC enforcer with the built-in policies.
func InitCasbin() error {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return fmt.Errorf("failed to create Casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return fmt.Errorf("failed to create Casbin enforcer: %w", err)
	}
	for _, p := range defaultPolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("failed to add policy %v: %w", p, err)
		}
	}
	enforcer = e
	log.Info().Int("policies", len(defaultPolicies)).Msg("Casbin RBAC initialized")
	return nil
}

// GetEnforcer returns the Casbin enforcer instance
func GetEnforcer() *casbin.Enforcer {
	return enforcer
}

// RBACMiddleware checks if the admin has permission for the requested action
func RBACMiddleware(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(AdminRoleKey)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role not found"})
			return
		}
		if enforcer == nil {
			log.Error().Msg("RBAC enforcer is not initialized")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Permission check failed"})
			return
		}

		allowed, err := enforcer.Enforce(role, resource, action)
		if err != nil {
			log.Error().Err(err).Msg("casbin enforce failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Permission check failed"})
			return
		}
		if !allowed {
			log.Warn().
				Str("role", role).
				Str("resource", resource).
				Str("action", action).
				Msg("permission denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
