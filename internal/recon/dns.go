package recon

import (
	"context"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"

	"github.com/bountylynx/bountylynx/pkg/models"
)

// DNSSweeper performs a best-effort A/NS lookup of the research target as
// supplemental recon. Every failure path yields an empty record set; the
// sweep never aborts a research run.
type DNSSweeper struct {
	server  string
	timeout time.Duration
	client  *mdns.Client
	logger  *logrus.Logger
}

func NewDNSSweeper(cfg models.ReconConfig, logger *logrus.Logger) *DNSSweeper {
	if logger == nil {
		logger = logrus.New()
	}
	timeout := cfg.DNSTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	server := cfg.DNSServer
	if server == "" {
		server = "8.8.8.8:53"
	}

	return &DNSSweeper{
		server:  server,
		timeout: timeout,
		client: &mdns.Client{
			Net:          "udp",
			Timeout:      timeout,
			DialTimeout:  timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
			UDPSize:      1232,
		},
		logger: logger,
	}
}

func (s *DNSSweeper) Sweep(ctx context.Context, target string) models.DNSIntel {
	domain := GuessDomain(target)
	intel := models.DNSIntel{Domain: domain}

	for _, rr := range s.query(ctx, domain, mdns.TypeA) {
		if a, ok := rr.(*mdns.A); ok {
			intel.Addresses = append(intel.Addresses, a.A.String())
		}
	}
	for _, rr := range s.query(ctx, domain, mdns.TypeNS) {
		if ns, ok := rr.(*mdns.NS); ok {
			intel.Nameservers = append(intel.Nameservers, strings.TrimSuffix(ns.Ns, "."))
		}
	}

	return intel
}

func (s *DNSSweeper) query(ctx context.Context, domain string, qtype uint16) []mdns.RR {
	msg := new(mdns.Msg)
	msg.SetQuestion(mdns.Fqdn(domain), qtype)
	msg.RecursionDesired = true

	resp, _, err := s.client.ExchangeContext(ctx, msg, s.server)
	if err != nil {
		s.logger.Debugf("DNS query %s/%d failed: %v", domain, qtype, err)
		return nil
	}
	if resp.Rcode != mdns.RcodeSuccess {
		return nil
	}
	return resp.Answer
}

// GuessDomain maps a research target name to a probable apex domain. Targets
// already shaped like hostnames are reduced to their registered domain;
// bare product names get a .com suffix, matching how generated test scripts
// address the target.
func GuessDomain(target string) string {
	t := strings.ToLower(strings.TrimSpace(target))
	if t == "" {
		return ""
	}
	if !strings.Contains(t, ".") {
		return t + ".com"
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(t); err == nil {
		return etld
	}
	return t
}
