package models

// SubmissionPayload is the plain structured representation of a
// configuration session: what gets persisted and what a snapshot query
// returns. It is free of cycles and opaque handles, so it marshals
// directly to JSON.
type SubmissionPayload struct {
	TournamentID int               `json:"tournament_id"`
	Categories   []Category        `json:"categories"`
	Formats      []MatchFormat     `json:"formats,omitempty"`
	Rules        RegistrationRules `json:"rules"`
}

// BuildSubmission flattens a session into the submission payload shape,
// copying every entity so the payload never aliases live session state.
// Categories keep their insertion order; formats follow the same order.
func BuildSubmission(s *ConfigSession) *SubmissionPayload {
	payload := &SubmissionPayload{
		TournamentID: s.TournamentID,
		Categories:   make([]Category, 0, len(s.Categories)),
		Rules:        s.Rules,
	}
	if s.Rules.DiscountValue != nil {
		payload.Rules.DiscountValue = cloneFloatPtr(s.Rules.DiscountValue)
	}
	seen := make(map[string]bool)
	appendCategory := func(c *Category) {
		if c == nil || seen[c.ID] {
			return
		}
		seen[c.ID] = true
		payload.Categories = append(payload.Categories, *c.Clone())
		if f := s.Formats[c.ID]; f != nil {
			payload.Formats = append(payload.Formats, *f.Clone())
		}
	}
	for _, c := range s.OrderedCategories() {
		appendCategory(c)
	}
	// Team subcategories materialize outside the top-level order; they
	// still belong to the submission when the team references them.
	for _, c := range s.OrderedCategories() {
		if !c.IsTeam() {
			continue
		}
		for _, subID := range c.TeamSubcategories {
			appendCategory(s.Categories[subID])
		}
	}
	return payload
}

// RestoreSession reconstructs a configuration session from a previously
// built payload. BuildSubmission and RestoreSession round-trip: the
// restored registry and format map hold equivalent entities.
func RestoreSession(p *SubmissionPayload) *ConfigSession {
	s := NewConfigSession(p.TournamentID)
	s.Rules = p.Rules
	if p.Rules.DiscountValue != nil {
		s.Rules.DiscountValue = cloneFloatPtr(p.Rules.DiscountValue)
	}
	subIDs := make(map[string]bool)
	for i := range p.Categories {
		if p.Categories[i].IsTeam() {
			for _, subID := range p.Categories[i].TeamSubcategories {
				subIDs[subID] = true
			}
		}
	}
	for i := range p.Categories {
		c := p.Categories[i].Clone()
		if subIDs[c.ID] {
			// Team subcategories live in the registry without a slot in
			// the top-level category order.
			s.Categories[c.ID] = c
			continue
		}
		s.AddCategory(c)
	}
	for i := range p.Formats {
		f := p.Formats[i].Clone()
		s.Formats[f.CategoryID] = f
	}
	return s
}
