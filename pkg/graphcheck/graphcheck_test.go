package graphcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
)

func TestFindDiscrepancies_FlagsDanglingTransitionEndpoints(t *testing.T) {
	screens := []*knowledge.Screen{
		{Envelope: knowledge.Envelope{EntityID: "s1"}},
		{Envelope: knowledge.Envelope{EntityID: "s2"}},
	}
	transitions := []*knowledge.Transition{
		{Envelope: knowledge.Envelope{EntityID: "t1"}, FromScreenID: "s1", ToScreenID: "s2"},
		{Envelope: knowledge.Envelope{EntityID: "t2"}, FromScreenID: "s1", ToScreenID: "unknown"},
		{Envelope: knowledge.Envelope{EntityID: "t3"}, FromScreenID: "", ToScreenID: "s2"},
	}

	discrepancies := findDiscrepancies(screens, transitions)

	assert.Len(t, discrepancies, 2)
	assert.Contains(t, discrepancies[0]+discrepancies[1], "t2")
	assert.Contains(t, discrepancies[0]+discrepancies[1], "t3")
}

func TestFindDiscrepancies_EmptyWhenConsistent(t *testing.T) {
	screens := []*knowledge.Screen{{Envelope: knowledge.Envelope{EntityID: "s1"}}}
	transitions := []*knowledge.Transition{{Envelope: knowledge.Envelope{EntityID: "t1"}, FromScreenID: "s1", ToScreenID: "s1"}}

	assert.Empty(t, findDiscrepancies(screens, transitions))
}
