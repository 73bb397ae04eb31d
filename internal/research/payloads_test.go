package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBurpPayloadsIDOR(t *testing.T) {
	set := BurpPayloads(CategoryIDOR, "user_id")

	assert.Contains(t, set.IntruderPayload, "§user_id§")
	assert.Contains(t, set.IntruderPayload, "Attack Type: Sniper")
	assert.Contains(t, set.RepeaterTemplate, "user_id")
	assert.Contains(t, set.RepeaterTemplate, "GET /api/v2/organizations/1/wallets")
	assert.NotEmpty(t, set.Methodology)
}

func TestBurpPayloadsAuthBypass(t *testing.T) {
	set := BurpPayloads(CategoryAuthBypass, "otp_code")

	assert.Contains(t, set.IntruderPayload, "Race Condition Testing")
	assert.Contains(t, set.RepeaterTemplate, "/api/v2/auth/2fa/verify")
	assert.Contains(t, set.Methodology, "race condition")
}

func TestBurpPayloadsGeneric(t *testing.T) {
	set := BurpPayloads("xss", "comment")

	assert.Contains(t, set.IntruderPayload, "xss")
	assert.Contains(t, set.RepeaterTemplate, "comment")
	assert.Contains(t, set.Methodology, "xss")
}
