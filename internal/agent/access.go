package agent

import (
	"strings"

	"github.com/bountylynx/bountylynx/pkg/utils"
)

// Trusted premium key prefixes. Keys shaped like payment-processor output
// are accepted by prefix; true subscription lookup stays stubbed.
const (
	prefixProdKey = "bb_prod_"
	prefixTestKey = "bb_test_"
	demoKey       = "demo-premium-key"
)

// validateAccess applies the tier gate. Free sessions are capped by the
// number of results already logged; there is no reset. Premium sessions
// trust key prefixes and fall through to grant for unrecognized key shapes.
func (a *Agent) validateAccess() bool {
	if !a.opts.Premium {
		a.mu.Lock()
		used := len(a.sessionLog)
		a.mu.Unlock()

		limit := a.cfg.Access.FreeTierLimit
		if limit <= 0 {
			limit = 3
		}
		if used >= limit {
			a.logger.Infof("Free tier exhausted (%d/%d searches); premium unlocks full orchestration", used, limit)
			return false
		}
		return true
	}

	key := a.opts.APIKey
	switch {
	case strings.HasPrefix(key, "bb_"):
		return a.validateKeyWithProcessor(key)
	case key == demoKey:
		return true
	}

	// Optional signed license token; treated as advisory, failure falls
	// through to the development grant below.
	if token, secret := a.cfg.Access.LicenseToken, a.cfg.Access.LicenseSecret; token != "" && secret != "" {
		if ok, err := utils.ValidateJWT(token, secret); err == nil && ok {
			return true
		}
		a.logger.Debug("License token did not validate, using development fallback")
	}

	return true
}

// validateKeyWithProcessor stands in for a payment-processor subscription
// lookup. Trusted prefixes pass; anything else shaped like an API key is
// rejected.
func (a *Agent) validateKeyWithProcessor(key string) bool {
	switch {
	case strings.HasPrefix(key, prefixProdKey):
		a.logger.Info("Premium subscription validated")
		return true
	case strings.HasPrefix(key, prefixTestKey):
		a.logger.Info("Test subscription validated")
		return true
	default:
		a.logger.Warnf("Invalid API key %q", redactKey(key))
		return false
	}
}

func redactKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:8] + "***"
}
