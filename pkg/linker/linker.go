// Package linker implements the post-extraction linking phase: five
// bidirectional linking passes over all entities of a (knowledge_id,
// job_id), using fuzzy matching (substring containment plus an edit-ratio
// fallback) and set-union-style append semantics so concurrent passes
// cannot lose references or create duplicates.
package linker

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

const fuzzyThreshold = 0.6

// Linker runs all five passes for one (knowledge_id, job_id).
type Linker struct {
	Store *store.Store
}

// entities is the working set loaded once at the start of Link, mutated
// in-memory by each pass, then persisted at the end.
type entities struct {
	screens []*knowledge.Screen
	tasks []*knowledge.Task
	actions []*knowledge.Action
	transitions []*knowledge.Transition
	functions []*knowledge.BusinessFunction
	workflows []*knowledge.OperationalWorkflow
}

// Link loads every entity for (knowledgeID, jobID) once, runs the five
// linking passes, and persists every mutated entity back.
func (l *Linker) Link(ctx context.Context, knowledgeID, jobID string) error {
	e, err := l.loadAll(ctx, knowledgeID, jobID)
	if err != nil {
		return fmt.Errorf("loading entities for linking: %w", err)
	}

	linkTasksToScreens(e)
	linkActionsToScreens(e)
	linkBusinessFunctionsToScreens(e)
	linkWorkflowsToEntities(e)
	linkTransitionsToEntities(e)

	return l.persistAll(ctx, e)
}

func (l *Linker) loadAll(ctx context.Context, knowledgeID, jobID string) (*entities, error) {
	var e entities
	var err error

	if e.screens, err = store.QueryByKnowledge(ctx, l.Store, knowledge.KindScreen, knowledgeID, jobID, func() *knowledge.Screen { return &knowledge.Screen{} }); err != nil {
		return nil, err
	}
	if e.tasks, err = store.QueryByKnowledge(ctx, l.Store, knowledge.KindTask, knowledgeID, jobID, func() *knowledge.Task { return &knowledge.Task{} }); err != nil {
		return nil, err
	}
	if e.actions, err = store.QueryByKnowledge(ctx, l.Store, knowledge.KindAction, knowledgeID, jobID, func() *knowledge.Action { return &knowledge.Action{} }); err != nil {
		return nil, err
	}
	if e.transitions, err = store.QueryByKnowledge(ctx, l.Store, knowledge.KindTransition, knowledgeID, jobID, func() *knowledge.Transition { return &knowledge.Transition{} }); err != nil {
		return nil, err
	}
	if e.functions, err = store.QueryByKnowledge(ctx, l.Store, knowledge.KindBusinessFunction, knowledgeID, jobID, func() *knowledge.BusinessFunction { return &knowledge.BusinessFunction{} }); err != nil {
		return nil, err
	}
	if e.workflows, err = store.QueryByKnowledge(ctx, l.Store, knowledge.KindWorkflow, knowledgeID, jobID, func() *knowledge.OperationalWorkflow { return &knowledge.OperationalWorkflow{} }); err != nil {
		return nil, err
	}
	return &e, nil
}

func (l *Linker) persistAll(ctx context.Context, e *entities) error {
	for _, s := range e.screens {
		if err := store.SaveEntity(ctx, l.Store, knowledge.KindScreen, s); err != nil {
			return err
		}
	}
	for _, t := range e.tasks {
		if err := store.SaveEntity(ctx, l.Store, knowledge.KindTask, t); err != nil {
			return err
		}
	}
	for _, a := range e.actions {
		if err := store.SaveEntity(ctx, l.Store, knowledge.KindAction, a); err != nil {
			return err
		}
	}
	for _, tr := range e.transitions {
		if err := store.SaveEntity(ctx, l.Store, knowledge.KindTransition, tr); err != nil {
			return err
		}
	}
	for _, f := range e.functions {
		if err := store.SaveEntity(ctx, l.Store, knowledge.KindBusinessFunction, f); err != nil {
			return err
		}
	}
	for _, w := range e.workflows {
		if err := store.SaveEntity(ctx, l.Store, knowledge.KindWorkflow, w); err != nil {
			return err
		}
	}
	return nil
}

// fuzzyMatch reports whether a and b match by case-folded substring
// containment, falling back to an edit-ratio threshold of 0.6 — the single
// matching rule every linking pass shares.
func fuzzyMatch(a, b string) bool {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return editRatio(a, b) >= fuzzyThreshold
}

// editRatio converts Levenshtein distance into a normalized [0,1]
// similarity ratio, using agnivade/levenshtein for the distance
// computation.
func editRatio(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}

// addToSet appends v to list only if not already present (by equality),
// the set-union semantics every pass uses so concurrent/repeated linking
// passes are idempotent.
func addToSet(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// urlMatches reports whether pageURL matches any of patterns via regex
// search, per the Tasks↔Screens rule.
func urlMatches(pageURL string, patterns []string) bool {
	if pageURL == "" {
		return false
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		if re.MatchString(pageURL) {
			return true
		}
	}
	return false
}
