package recon

import "fmt"

// CannedResponse returns the static substitute for a capability. The shapes
// mirror what the live integrations produce so downstream analysis never has
// to care which branch answered.
func CannedResponse(tool string, params map[string]string) map[string]interface{} {
	switch tool {
	case ToolPerplexity:
		query := paramOr(params, "query", "security")
		return map[string]interface{}{
			"response": fmt.Sprintf("Latest research on %s: "+
				"IDOR vulnerabilities remain prevalent in 2025, with 67%% "+
				"of cryptocurrency platforms showing sequential ID patterns. "+
				"Path traversal + IDOR chaining yields highest bounties. "+
				"AI-assisted automation increases discovery rates by 30%%.", query),
			"sources":    []string{"security-research.ai", "bugbounty-trends.com"},
			"confidence": 0.85,
			"api_source": "mock_enhanced",
		}
	case ToolGithubSearch:
		return map[string]interface{}{
			"repositories": []RepoSummary{
				{Name: "crypto-idor-scanner", Stars: 234, Description: "IDOR detection for crypto APIs"},
				{Name: "nicehash-tools", Stars: 89, Description: "NiceHash security testing utilities"},
				{Name: "ai-bugbounty-tools", Stars: 156, Description: "AI-powered vulnerability discovery"},
			},
			"total_count": 45,
			"api_source":  "mock_enhanced",
		}
	case ToolBraveSearch:
		return map[string]interface{}{
			"results": []map[string]interface{}{
				{
					"title":   "HackenProof Bug Bounty Platform - Cryptocurrency Focus",
					"url":     "https://hackenproof.com/programs",
					"snippet": "Up to $22,500 rewards for critical vulnerabilities in crypto platforms",
				},
				{
					"title":   "2025 Bug Bounty Trends - AI-Assisted Hunting",
					"url":     "https://bugbounty-trends.com/2025-ai-trends",
					"snippet": "AI tools increase hunter productivity by 20-30% in 2025",
				},
			},
			"api_source": "mock_enhanced",
		}
	default:
		data := make(map[string]interface{}, len(params))
		for k, v := range params {
			data[k] = v
		}
		return map[string]interface{}{
			"status":     "mock_response",
			"data":       data,
			"api_source": "fallback",
		}
	}
}
