package middleware

import (
	"regexp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sheetworks-back/internal/config"
)

// CORS allows exact origins from the config list plus anything matching a
// trusted pattern. Office add-ins load from rotating subdomains, so the
// patterns cover whole host families rather than fixed origins.
func CORS(cfg config.CORS) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	patterns := make([]*regexp.Regexp, 0, len(cfg.TrustedPatterns))
	for _, raw := range cfg.TrustedPatterns {
		if re, err := regexp.Compile(raw); err == nil {
			patterns = append(patterns, re)
		}
	}

	corsConfig := cors.Config{
		AllowMethods: cfg.AllowMethods,
		AllowHeaders: cfg.AllowHeaders,
		MaxAge:       cfg.MaxAge,
		AllowOriginFunc: func(origin string) bool {
			for _, allowed := range cfg.AllowOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}

			for _, re := range patterns {
				if re.MatchString(origin) {
					return true
				}
			}

			return false
		},
	}

	return cors.New(corsConfig)
}
