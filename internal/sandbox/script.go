package sandbox

import (
	"fmt"
	"strings"

	"github.com/bountylynx/bountylynx/pkg/models"
)

// GenerateTestScript renders the python test harness for one finding. The
// PoC template is spliced in verbatim; the script reports success via its
// exit code.
func GenerateTestScript(f models.Finding, target string) string {
	var b strings.Builder

	b.WriteString("#!/usr/bin/env python3\n")
	b.WriteString(`"""` + "\n")
	fmt.Fprintf(&b, "Isolated vulnerability test for: %s\n", f.Title)
	fmt.Fprintf(&b, "Target: %s\n", target)
	fmt.Fprintf(&b, "Severity: %s\n", f.Severity)
	b.WriteString(`"""` + "\n\n")

	b.WriteString("import requests\n")
	b.WriteString("import json\n")
	b.WriteString("import time\n")
	b.WriteString("from urllib.parse import urljoin\n\n")

	b.WriteString("def main():\n")
	fmt.Fprintf(&b, "    print(\"Testing vulnerability: %s\")\n", f.Title)
	fmt.Fprintf(&b, "    print(\"Target: %s\")\n", target)
	fmt.Fprintf(&b, "    print(\"Severity: %s\")\n\n", f.Severity)
	fmt.Fprintf(&b, "    base_url = \"https://test.%s.com\"\n\n", strings.ToLower(target))

	b.WriteString("    try:\n")
	for _, line := range strings.Split(f.PoCTemplate, "\n") {
		fmt.Fprintf(&b, "        %s\n", line)
	}
	b.WriteString("\n        print(\"Test completed successfully\")\n")
	b.WriteString("        return 0\n\n")
	b.WriteString("    except Exception as e:\n")
	b.WriteString("        print(f\"Test failed: {e}\")\n")
	b.WriteString("        return 1\n\n")

	b.WriteString("if __name__ == \"__main__\":\n")
	b.WriteString("    exit(main())\n")

	return b.String()
}

// TestName derives the sandbox test name for a finding.
func TestName(f models.Finding) string {
	return "test_" + f.SlugTitle()
}
