package collection

import "feedsync/models"

// MergeFeed folds a freshly fetched batch of abstracts into the feed's
// stored state and installs the result as the new catelog.
//
// Local read/starred flags never regress: an article the user already
// read or starred stays read/starred even when the fresh batch says
// otherwise. Articles absent from the fresh batch are handled per the
// aged-out policy: kept untouched, or force-marked read on the theory
// that they fell out of the backend's active window. The merged set is
// sorted newest first.
func (s *Store) MergeFeed(feed string, summary *models.Summary, fresh []*models.Abstract, policy models.AgedOutPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(fresh))
	merged := make([]*models.Abstract, 0, len(fresh))
	for _, abstract := range fresh {
		if _, dup := seen[abstract.ID]; dup {
			continue
		}
		seen[abstract.ID] = struct{}{}
		if old := s.abstracts[abstract.ID]; old != nil {
			abstract.Read = abstract.Read || old.Read
			abstract.Starred = abstract.Starred || old.Starred
		}
		s.abstracts[abstract.ID] = abstract
		merged = append(merged, abstract)
	}

	if old := s.summaries[feed]; old != nil {
		for _, id := range old.Catelog {
			if _, present := seen[id]; present {
				continue
			}
			retained := s.abstracts[id]
			if retained == nil {
				continue
			}
			if policy == models.AgedOutMarkRead {
				retained.Read = true
			}
			merged = append(merged, retained)
		}
	}

	models.SortAbstracts(merged)
	summary.Catelog = make([]string, 0, len(merged))
	for _, abstract := range merged {
		summary.Catelog = append(summary.Catelog, abstract.ID)
	}
	summary.OK = true

	s.summaries[feed] = summary
	s.dirtySummaries[feed] = struct{}{}
}

// MarkFeedFailed records a total fetch failure: ok goes false and the
// existing catelog stays untouched so stored articles remain readable.
func (s *Store) MarkFeedFailed(feed, link, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := s.summaries[feed]
	if summary == nil {
		summary = models.NewSummary(link, title)
		s.summaries[feed] = summary
	}
	summary.OK = false
	s.dirtySummaries[feed] = struct{}{}
}
