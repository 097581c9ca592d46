package security

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/shaj13/go-guardian/v2/auth"
	"github.com/shaj13/go-guardian/v2/auth/strategies/token"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
)

var strategy auth.Strategy

const ApiKeyHeader = "api-key"

// SetupGoGuardian configures the api-key strategy used by Secure. Validated
// keys are cached so repeated requests skip the comparison.
func SetupGoGuardian(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("api key is empty")
	}

	cache := libcache.LRU.New(100)
	cache.SetTTL(time.Minute * 60)
	cache.RegisterOnExpired(func(key, _ interface{}) {
		cache.Delete(key)
	})

	strategy = token.New(validateApiKey(apiKey), cache, token.SetParser(token.XHeaderParser(ApiKeyHeader)))
	return nil
}

func validateApiKey(expected string) token.AuthenticateFunc {
	return func(ctx context.Context, r *http.Request, tokenStr string) (auth.Info, time.Time, error) {
		if subtle.ConstantTimeCompare([]byte(tokenStr), []byte(expected)) != 1 {
			return nil, time.Time{}, fmt.Errorf("authentication failed: %v is not valid", ApiKeyHeader)
		}
		return auth.NewDefaultUser("api-key-user", "api-key-user", []string{}, auth.Extensions{}), time.Time{}, nil
	}
}
