package linker

// linkTransitionsToEntities resolves each transition's FromScreenName/
// ToScreenName to screen ids, and its TriggeredBy.ElementID to an action id
// when the action's selector or name matches, wiring Screen.OutgoingTransitions/
// IncomingTransitions and Transition.ActionID —.
func linkTransitionsToEntities(e *entities) {
	for _, t := range e.transitions {
		for _, sc := range e.screens {
			if t.FromScreenID == "" && fuzzyMatch(t.FromScreenName, sc.Name) {
				t.FromScreenID = sc.EntityID
				sc.OutgoingTransitions = addToSet(sc.OutgoingTransitions, t.EntityID)
			}
			if t.ToScreenID == "" && fuzzyMatch(t.ToScreenName, sc.Name) {
				t.ToScreenID = sc.EntityID
				sc.IncomingTransitions = addToSet(sc.IncomingTransitions, t.EntityID)
			}
		}

		if t.TriggeredBy.ElementID == "" {
			continue
		}
		for _, a := range e.actions {
			if fuzzyMatch(t.TriggeredBy.ElementID, a.Name) || fuzzyMatch(t.TriggeredBy.ElementID, a.TargetSelector) {
				t.ActionID = a.EntityID
				a.TransitionIDs = addToSet(a.TransitionIDs, t.EntityID)
				break
			}
		}
	}
}
