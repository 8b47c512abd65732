package pagerduty

import (
	"os"
	"strings"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a flat YAML mapping of option names to values.
func LoadFile(path string) (RawConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %q", path)
	}

	raw := RawConfiguration{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parse %q", path)
	}
	return raw, nil
}

// ConsulSource reads options stored one per key under a KV prefix, e.g.
// "pagerduty/service_key".
type ConsulSource struct {
	kv     *consulapi.KV
	prefix string
}

func NewConsulSource(cc *consulapi.Client, prefix string) *ConsulSource {
	return &ConsulSource{
		kv:     cc.KV(),
		prefix: normalizePrefix(prefix),
	}
}

// Load fetches every option under the prefix.
func (s *ConsulSource) Load() (RawConfiguration, error) {
	pairs, _, err := s.kv.List(s.prefix, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "list consul prefix %q", s.prefix)
	}
	return pairsToRaw(s.prefix, pairs), nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// pairsToRaw keeps the direct children of prefix. Values stay strings;
// ParseConfiguration handles the boolean option's string form.
func pairsToRaw(prefix string, pairs consulapi.KVPairs) RawConfiguration {
	raw := RawConfiguration{}
	for _, p := range pairs {
		name := strings.TrimPrefix(p.Key, prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		raw[name] = string(p.Value)
	}
	return raw
}
