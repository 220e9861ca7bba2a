package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// HostPolicyConfig configures which article hosts may be fetched.
// An empty Allow list admits every host not explicitly disallowed.
type HostPolicyConfig struct {
	Allow    []string `mapstructure:"allow" json:"allow"`
	Disallow []string `mapstructure:"disallow" json:"disallow"`
}

// Normalize cleans entries and removes duplicates.
func (c HostPolicyConfig) Normalize() HostPolicyConfig {
	norm := c
	norm.Allow = sanitizeDomainList(norm.Allow)
	norm.Disallow = sanitizeDomainList(norm.Disallow)
	return norm
}

// Validate ensures configured policy entries do not conflict.
func (c HostPolicyConfig) Validate() error {
	norm := c.Normalize()
	allow := make(map[string]struct{}, len(norm.Allow))
	for _, host := range norm.Allow {
		allow[host] = struct{}{}
	}
	for _, host := range norm.Disallow {
		if _, ok := allow[host]; ok {
			return fmt.Errorf("scrape policy conflict: host %q present in both allow and disallow lists", host)
		}
	}
	return nil
}

// Permits reports whether rawURL's host passes the policy. Subdomains match
// their parent entry.
func (c HostPolicyConfig) Permits(rawURL string) bool {
	host := normalizeHost(rawURL)
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		host = strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	}
	if host == "" {
		return false
	}
	for _, d := range c.Disallow {
		if hostMatches(host, d) {
			return false
		}
	}
	if len(c.Allow) == 0 {
		return true
	}
	for _, a := range c.Allow {
		if hostMatches(host, a) {
			return true
		}
	}
	return false
}

func hostMatches(host, entry string) bool {
	return host == entry || strings.HasSuffix(host, "."+entry)
}

func sanitizeDomainList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		host := normalizeHost(raw)
		if host == "" {
			continue
		}
		seen[host] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for host := range seen {
		out = append(out, host)
	}
	sort.Strings(out)
	return out
}

func normalizeHost(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		if u, err := url.Parse(value); err == nil && u.Host != "" {
			return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		}
	}
	return strings.TrimPrefix(value, "www.")
}
