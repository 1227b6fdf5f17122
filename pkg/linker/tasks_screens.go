package linker

// linkTasksToScreens resolves each task's PageURL/ScreenContext to a screen,
// then unions the ids onto both sides — Task.ScreenIDs and
// Screen.TaskIDs —.
func linkTasksToScreens(e *entities) {
	for _, t := range e.tasks {
		for _, sc := range e.screens {
			matched := urlMatches(t.PageURL, sc.URLPatterns)
			if !matched && t.ScreenContext != "" {
				matched = fuzzyMatch(t.ScreenContext, sc.Name)
			}
			if !matched {
				continue
			}
			t.ScreenIDs = addToSet(t.ScreenIDs, sc.EntityID)
			sc.TaskIDs = addToSet(sc.TaskIDs, t.EntityID)
		}
	}
}
