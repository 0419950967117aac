package service

import (
	"github.com/rs/zerolog/log"
)

// allowed event names; anything else is recorded as "custom".
var knownEvents = map[string]struct{}{
	"sort_change":       {},
	"filter_change":     {},
	"reset_filters":     {},
	"list_render":       {},
	"guide_click":       {},
	"compare_open":      {},
	"compare_clear":     {},
	"testimonial_click": {},
	"theme_toggle":      {},
	"share_click":       {},
	"chart_point_click": {},
	"aff_click":         {},
}

// AnalyticsService records client interaction events as structured log lines.
// Recording never fails; a bad event is still a log line.
type AnalyticsService struct{}

func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// Track writes one event. Unknown names are kept but flagged so downstream
// aggregation can ignore them.
func (s *AnalyticsService) Track(profileID, event string, params map[string]interface{}) {
	name := event
	if _, ok := knownEvents[name]; !ok {
		name = "custom"
	}
	log.Info().
		Str("component", "analytics").
		Str("profile_id", profileID).
		Str("event", name).
		Str("raw_event", event).
		Fields(params).
		Msg("Interaction event")
}
