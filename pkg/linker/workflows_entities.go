package linker

// linkWorkflowsToEntities resolves each workflow step's Screen/Task fields
// against screens and tasks by fuzzy name match, and each workflow's
// BusinessFunction field against business functions, unioning ids onto the
// workflow and, for screens, onto Screen.WorkflowIDs —.
func linkWorkflowsToEntities(e *entities) {
	for _, w := range e.workflows {
		for _, step := range w.Steps {
			if step.Screen != "" {
				for _, sc := range e.screens {
					if fuzzyMatch(step.Screen, sc.Name) {
						w.ScreenIDs = addToSet(w.ScreenIDs, sc.EntityID)
						sc.WorkflowIDs = addToSet(sc.WorkflowIDs, w.EntityID)
					}
				}
			}
			if step.Task != "" {
				for _, t := range e.tasks {
					if fuzzyMatch(step.Task, t.Name) {
						w.TaskIDs = addToSet(w.TaskIDs, t.EntityID)
					}
				}
			}
		}
		if w.BusinessFunction != "" {
			for _, f := range e.functions {
				if fuzzyMatch(w.BusinessFunction, f.Name) {
					w.BusinessFunctionID = f.EntityID
					break
				}
			}
		}
	}
}
