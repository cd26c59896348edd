/*
downtime.go - Synthetic downtime event materialization

PURPOSE:
  Downtime is estimated (planned hours minus uptime), not measured, so
  there are no real events to report. For realistic categorization the
  estimate is split into 1-2 named events drawn from the fixed reason
  taxonomy. The split proportions are a presentation choice; the only
  hard requirement is that event durations sum exactly to the group's
  downtime_hours after 2-decimal rounding.
*/
package rollup

import "github.com/warp/factory-trace/model"

// synthesizeDowntime splits total downtime into 1-2 reason-tagged events.
// The first event takes a 30-70% share; the last takes the exact
// remainder, so the durations always reconcile with the total.
func (a *Aggregator) synthesizeDowntime(total float64) []model.DowntimeEvent {
	if total <= 0 {
		return []model.DowntimeEvent{}
	}

	reasons := model.DowntimeReasonKeys()
	numEvents := 1 + a.rng.Intn(2)

	events := make([]model.DowntimeEvent, 0, numEvents)
	remaining := total
	for i := 0; i < numEvents; i++ {
		var hours float64
		if i == numEvents-1 {
			hours = round2(remaining)
		} else {
			hours = round2(remaining * (0.3 + a.rng.Float64()*0.4))
			remaining -= hours
		}
		if hours <= 0 {
			continue
		}
		reason := reasons[a.rng.Intn(len(reasons))]
		events = append(events, model.DowntimeEvent{
			Reason:        reason,
			Description:   model.DowntimeReasons[reason],
			DurationHours: hours,
		})
	}
	return events
}
