package linker

// linkBusinessFunctionsToScreens resolves each business function's
// ScreensMentioned against screen names, unioning ids onto both
// BusinessFunction.RelatedScreens and Screen.BusinessFunctionIDs.
// ScreensMentioned itself keeps the raw names.
func linkBusinessFunctionsToScreens(e *entities) {
	for _, f := range e.functions {
		for _, mentioned := range f.ScreensMentioned {
			for _, sc := range e.screens {
				if !fuzzyMatch(mentioned, sc.Name) {
					continue
				}
				f.RelatedScreens = addToSet(f.RelatedScreens, sc.EntityID)
				sc.BusinessFunctionIDs = addToSet(sc.BusinessFunctionIDs, f.EntityID)
			}
		}
	}
}
