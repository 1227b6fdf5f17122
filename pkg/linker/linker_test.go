package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"exact match", "Login Screen", "login screen", true},
		{"substring containment", "Login", "Login Screen", true},
		{"close edit distance", "Dashbord", "Dashboard", true},
		{"unrelated strings", "Login Screen", "Checkout Page", false},
		{"empty strings never match", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fuzzyMatch(tt.a, tt.b))
		})
	}
}

func TestAddToSet_Idempotent(t *testing.T) {
	list := []string{"a", "b"}
	list = addToSet(list, "b")
	list = addToSet(list, "c")
	list = addToSet(list, "")
	assert.Equal(t, []string{"a", "b", "c"}, list)
}

func TestLinkTasksToScreens_URLPatternMatch(t *testing.T) {
	screen := &knowledge.Screen{
		Envelope:    knowledge.Envelope{EntityID: "screen-1"},
		Name:        "Checkout",
		URLPatterns: []string{`^/checkout/.*`},
	}
	task := &knowledge.Task{
		Envelope: knowledge.Envelope{EntityID: "task-1"},
		PageURL:  "/checkout/payment",
	}
	e := &entities{screens: []*knowledge.Screen{screen}, tasks: []*knowledge.Task{task}}

	linkTasksToScreens(e)

	assert.Contains(t, task.ScreenIDs, "screen-1")
	assert.Contains(t, screen.TaskIDs, "task-1")
}

func TestLinkTasksToScreens_FallsBackToScreenContext(t *testing.T) {
	screen := &knowledge.Screen{Envelope: knowledge.Envelope{EntityID: "screen-1"}, Name: "User Profile"}
	task := &knowledge.Task{Envelope: knowledge.Envelope{EntityID: "task-1"}, ScreenContext: "user profile page"}
	e := &entities{screens: []*knowledge.Screen{screen}, tasks: []*knowledge.Task{task}}

	linkTasksToScreens(e)

	assert.Contains(t, task.ScreenIDs, "screen-1")
}

func TestLinkTransitionsToEntities_ResolvesByName(t *testing.T) {
	from := &knowledge.Screen{Envelope: knowledge.Envelope{EntityID: "s1"}, Name: "Login"}
	to := &knowledge.Screen{Envelope: knowledge.Envelope{EntityID: "s2"}, Name: "Dashboard"}
	action := &knowledge.Action{Envelope: knowledge.Envelope{EntityID: "a1"}, Name: "Submit Login"}
	transition := &knowledge.Transition{
		Envelope:       knowledge.Envelope{EntityID: "t1"},
		FromScreenName: "Login",
		ToScreenName:   "Dashboard",
		TriggeredBy:    knowledge.Trigger{ActionType: "click", ElementID: "Submit Login"},
	}
	e := &entities{
		screens:     []*knowledge.Screen{from, to},
		actions:     []*knowledge.Action{action},
		transitions: []*knowledge.Transition{transition},
	}

	linkTransitionsToEntities(e)

	assert.Equal(t, "s1", transition.FromScreenID)
	assert.Equal(t, "s2", transition.ToScreenID)
	assert.Equal(t, "a1", transition.ActionID)
	assert.Contains(t, from.OutgoingTransitions, "t1")
	assert.Contains(t, to.IncomingTransitions, "t1")
	assert.Contains(t, action.TransitionIDs, "t1")
}

func TestLinkWorkflowsToEntities_ResolvesStepsAndBusinessFunction(t *testing.T) {
	screen := &knowledge.Screen{Envelope: knowledge.Envelope{EntityID: "s1"}, Name: "Checkout"}
	function := &knowledge.BusinessFunction{Envelope: knowledge.Envelope{EntityID: "bf1"}, Name: "Order Fulfillment"}
	workflow := &knowledge.OperationalWorkflow{
		Envelope:         knowledge.Envelope{EntityID: "w1"},
		BusinessFunction: "Order Fulfillment",
		Steps:            []knowledge.WorkflowStep{{Order: 1, Action: "submit", Screen: "Checkout"}},
	}
	e := &entities{
		screens:   []*knowledge.Screen{screen},
		functions: []*knowledge.BusinessFunction{function},
		workflows: []*knowledge.OperationalWorkflow{workflow},
	}

	linkWorkflowsToEntities(e)

	assert.Contains(t, workflow.ScreenIDs, "s1")
	assert.Contains(t, screen.WorkflowIDs, "w1")
	assert.Equal(t, "bf1", workflow.BusinessFunctionID)
}
