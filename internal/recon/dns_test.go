package recon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bountylynx/bountylynx/pkg/models"
)

func TestGuessDomain(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "bare product name", target: "NiceHash", want: "nicehash.com"},
		{name: "hostname reduced to apex", target: "api.nicehash.com", want: "nicehash.com"},
		{name: "apex passes through", target: "example.org", want: "example.org"},
		{name: "whitespace trimmed", target: "  Example  ", want: "example.com"},
		{name: "empty", target: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GuessDomain(tt.target))
		})
	}
}

func TestSweepUnreachableServer(t *testing.T) {
	sweeper := NewDNSSweeper(models.ReconConfig{
		DNSServer:  "127.0.0.1:1",
		DNSTimeout: 100 * time.Millisecond,
	}, quietLogger())

	intel := sweeper.Sweep(context.Background(), "example")

	assert.Equal(t, "example.com", intel.Domain)
	assert.Empty(t, intel.Addresses)
	assert.Empty(t, intel.Nameservers)
}
