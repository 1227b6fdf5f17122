package extract

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// UserFlowSynthesizer reads all screens, transitions, and workflows for a
// knowledge_id (business functions are not read) and emits UserFlow objects whose
// screen_sequence is derived from workflow step chains and reachable
// transition subgraphs, closing step.
type UserFlowSynthesizer struct {
	Store *store.Store
}

func (s *UserFlowSynthesizer) Synthesize(ctx context.Context, knowledgeID, jobID, websiteID string) ([]*knowledge.UserFlow, error) {
	screens, err := store.QueryByKnowledge(ctx, s.Store, knowledge.KindScreen, knowledgeID, jobID, func() *knowledge.Screen { return &knowledge.Screen{} })
	if err != nil {
		return nil, fmt.Errorf("loading screens: %w", err)
	}
	transitions, err := store.QueryByKnowledge(ctx, s.Store, knowledge.KindTransition, knowledgeID, jobID, func() *knowledge.Transition { return &knowledge.Transition{} })
	if err != nil {
		return nil, fmt.Errorf("loading transitions: %w", err)
	}
	workflows, err := store.QueryByKnowledge(ctx, s.Store, knowledge.KindWorkflow, knowledgeID, jobID, func() *knowledge.OperationalWorkflow { return &knowledge.OperationalWorkflow{} })
	if err != nil {
		return nil, fmt.Errorf("loading workflows: %w", err)
	}

	screensByID := make(map[string]*knowledge.Screen, len(screens))
	for _, sc := range screens {
		screensByID[sc.EntityID] = sc
	}

	outgoing := make(map[string][]*knowledge.Transition)
	for _, t := range transitions {
		outgoing[t.FromScreenID] = append(outgoing[t.FromScreenID], t)
	}

	var flows []*knowledge.UserFlow

	for _, wf := range workflows {
		flow := flowFromWorkflowSteps(wf, screensByID)
		if flow != nil {
			flows = append(flows, stampFlow(flow, knowledgeID, jobID, websiteID))
		}
	}

	for _, sc := range screens {
		if len(sc.IncomingTransitions) != 0 {
			continue // only synthesize from entry screens (no predecessors)
		}
		flow := flowFromReachableSubgraph(sc, outgoing, screensByID)
		if flow != nil {
			flows = append(flows, stampFlow(flow, knowledgeID, jobID, websiteID))
		}
	}

	return flows, nil
}

func flowFromWorkflowSteps(wf *knowledge.OperationalWorkflow, screensByID map[string]*knowledge.Screen) *knowledge.UserFlow {
	var sequence []knowledge.ScreenSequenceEntry
	order := 1
	var entry, exit string
	for _, step := range wf.Steps {
		if step.Screen == "" {
			continue
		}
		sequence = append(sequence, knowledge.ScreenSequenceEntry{Order: order, ScreenID: step.Screen})
		if entry == "" {
			entry = step.Screen
		}
		exit = step.Screen
		order++
	}
	if len(sequence) == 0 {
		return nil
	}
	return &knowledge.UserFlow{
		Name: wf.Name,
		EntryScreen: entry,
		ExitScreen: exit,
		ScreenSequence: sequence,
		TotalSteps: len(sequence),
		EstimatedDuration: len(sequence) * 15,
		Complexity: complexityFor(len(sequence)),
	}
}

// flowFromReachableSubgraph walks outgoing transitions depth-first from an
// entry screen up to a bounded depth, producing one linear path — a
// deliberately simple synthesis since building every path through a graph
// is exponential and out of scope for this phase.
func flowFromReachableSubgraph(entry *knowledge.Screen, outgoing map[string][]*knowledge.Transition, screensByID map[string]*knowledge.Screen) *knowledge.UserFlow {
	const maxHops = 20
	visited := map[string]bool{entry.EntityID: true}

	var sequence []knowledge.ScreenSequenceEntry
	current := entry
	order := 1
	sequence = append(sequence, knowledge.ScreenSequenceEntry{Order: order, ScreenID: current.EntityID})

	for len(sequence) < maxHops {
		edges := outgoing[current.EntityID]
		if len(edges) == 0 {
			break
		}
		next := edges[0]
		if visited[next.ToScreenID] {
			break
		}
		visited[next.ToScreenID] = true
		order++
		sequence = append(sequence, knowledge.ScreenSequenceEntry{Order: order, ScreenID: next.ToScreenID, TransitionID: next.EntityID})
		nextScreen, ok := screensByID[next.ToScreenID]
		if !ok {
			break
		}
		current = nextScreen
	}

	if len(sequence) < 2 {
		return nil // a single-screen "flow" carries no navigational information
	}

	return &knowledge.UserFlow{
		Name: fmt.Sprintf("%s flow", entry.Name),
		EntryScreen: entry.EntityID,
		ExitScreen: sequence[len(sequence)-1].ScreenID,
		ScreenSequence: sequence,
		TotalSteps: len(sequence),
		EstimatedDuration: len(sequence) * 15,
		Complexity: complexityFor(len(sequence)),
	}
}

func complexityFor(steps int) string {
	switch {
	case steps <= 3:
		return "simple"
	case steps <= 7:
		return "moderate"
	default:
		return "complex"
	}
}

func stampFlow(f *knowledge.UserFlow, knowledgeID, jobID, websiteID string) *knowledge.UserFlow {
	f.EntityID = uuid.NewString()
	f.KnowledgeID = knowledgeID
	f.JobID = jobID
	f.WebsiteID = websiteID
	return f
}
