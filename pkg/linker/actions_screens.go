package linker

// linkActionsToScreens matches each action's SourceScreenName (when present)
// against screen names and, failing that, its TargetSelector against each
// screen's UI elements, unioning ids onto both Action.ScreenIDs and
// Screen.ActionIDs.
func linkActionsToScreens(e *entities) {
	for _, a := range e.actions {
		for _, sc := range e.screens {
			matched := false
			if a.SourceScreenName != "" {
				matched = fuzzyMatch(a.SourceScreenName, sc.Name)
			}
			if !matched && a.TargetSelector != "" {
				for _, el := range sc.UIElements {
					if fuzzyMatch(a.TargetSelector, el) {
						matched = true
						break
					}
				}
			}
			if !matched {
				continue
			}
			a.ScreenIDs = addToSet(a.ScreenIDs, sc.EntityID)
			sc.ActionIDs = addToSet(sc.ActionIDs, a.EntityID)
		}
	}
}
