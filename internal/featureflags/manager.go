package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// rule is a parsed flag value: fully on, fully off, or a percentage rollout.
type rule struct {
	on      bool
	percent int
	rollout bool
}

// Manager evaluates feature flags from a comma-separated key=value list,
// e.g. "comments=on,related_posts=25%,legacy_editor=off". Values parse once
// at construction; unknown or malformed entries are dropped.
type Manager struct {
	rules map[string]rule
	raw   map[string]string
}

// NewManager parses the config string into a flag manager.
func NewManager(cfg string) *Manager {
	m := &Manager{
		rules: make(map[string]rule),
		raw:   make(map[string]string),
	}

	for _, pair := range strings.Split(cfg, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		key = normalize(key)
		value = normalize(value)
		if key == "" || value == "" {
			continue
		}
		r, ok := parseRule(value)
		if !ok {
			continue
		}
		m.rules[key] = r
		m.raw[key] = value
	}
	return m
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{on: true}, true
	case "off", "false", "0":
		return rule{}, true
	}
	if pctRaw, ok := strings.CutSuffix(value, "%"); ok {
		pct, err := strconv.Atoi(pctRaw)
		if err != nil {
			return rule{}, false
		}
		return rule{percent: pct, rollout: true}, true
	}
	return rule{}, false
}

// Enabled reports whether a flag is on for the given user. Percentage
// rollouts bucket users deterministically, so a user's answer is stable
// across requests; anonymous users (ID 0) never join a partial rollout.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	if !r.rollout {
		return r.on
	}
	if r.percent <= 0 {
		return false
	}
	if r.percent >= 100 {
		return true
	}
	if userID == 0 {
		return false
	}
	return rolloutBucket(name, userID) < r.percent
}

// Raw returns a copy of the configured flag values.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.raw))
	for k, v := range m.raw {
		out[k] = v
	}
	return out
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
