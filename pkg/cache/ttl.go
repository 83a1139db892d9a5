package cache

import "time"

// TTLPolicy maps stage names to time-to-live durations. Unknown stage
// names fall back to the default TTL.
type TTLPolicy struct {
	ttls map[string]time.Duration
	def  time.Duration
}

// NewTTLPolicy builds a policy from explicit per-stage TTLs.
func NewTTLPolicy(ttls map[string]time.Duration, def time.Duration) TTLPolicy {
	if def <= 0 {
		def = time.Hour
	}
	m := make(map[string]time.Duration, len(ttls))
	for stage, ttl := range ttls {
		if ttl > 0 {
			m[stage] = ttl
		}
	}
	return TTLPolicy{ttls: m, def: def}
}

// DefaultTTLPolicy returns the standard per-stage TTLs.
func DefaultTTLPolicy() TTLPolicy {
	return NewTTLPolicy(map[string]time.Duration{
		StageTechnical:    30 * time.Minute,
		StageSentiment:    2 * time.Hour,
		StageFinancial:    24 * time.Hour,
		StageFullAnalysis: time.Hour,
	}, time.Hour)
}

// For returns the TTL for a stage, or the default for unknown stages.
func (p TTLPolicy) For(stage string) time.Duration {
	if ttl, ok := p.ttls[stage]; ok {
		return ttl
	}
	return p.def
}
