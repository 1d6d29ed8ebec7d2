package enrich

import (
	"github.com/sells-group/player-enrich/internal/model"
)

// Summarize counts the outcomes of an enriched batch.
func Summarize(players []model.EnrichedPlayer, countryMissing int) *model.RunSummary {
	s := &model.RunSummary{
		Total:          len(players),
		CountryMissing: countryMissing,
	}
	for _, e := range players {
		if e.PER == nil {
			s.PERUndefined++
		}
		if e.Distance.Resolved {
			s.Resolved++
			continue
		}
		s.Unresolved++
		if f := e.Distance.Failure; f != nil {
			if s.Failures == nil {
				s.Failures = make(map[model.FailureReason]int)
			}
			s.Failures[f.Reason]++
		}
	}
	return s
}

// Records converts enriched players to their persisted form.
func Records(runID string, players []model.EnrichedPlayer) []model.PlayerRecord {
	out := make([]model.PlayerRecord, len(players))
	for i, e := range players {
		rec := model.PlayerRecord{
			RunID:             runID,
			Index:             e.Index,
			Row:               e.Row,
			FirstName:         e.FirstName,
			LastName:          e.LastName,
			SchoolCity:        e.SchoolCity,
			BirthplaceAddress: BirthplaceAddress(e.Player),
			PER:               e.PER,
			Miles:             e.MilesPtr(),
		}
		if f := e.Distance.Failure; f != nil {
			rec.FailureReason = string(f.Reason)
		}
		out[i] = rec
	}
	return out
}
