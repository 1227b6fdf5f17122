package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// handleKnowledgeQuery answers the "query by knowledge_id
// (optionally job_id)" contract: every extracted entity kind plus a
// statistics summary. job_id defaults to the most recent job for this
// knowledge_id when the caller omits it.
func (s *Server) handleKnowledgeQuery(c *gin.Context) {
	ctx := c.Request.Context()
	knowledgeID := c.Param("knowledge_id")

	jobID := c.Query("job_id")
	if jobID == "" {
		latest, err := store.LatestJobID(ctx, s.store, knowledgeID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		jobID = latest
	}
	if jobID == "" {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no knowledge found for this knowledge_id"})
		return
	}

	screens, err := store.QueryByKnowledge(ctx, s.store, knowledge.KindScreen, knowledgeID, jobID, func() *knowledge.Screen { return &knowledge.Screen{} })
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	tasks, err := store.QueryByKnowledge(ctx, s.store, knowledge.KindTask, knowledgeID, jobID, func() *knowledge.Task { return &knowledge.Task{} })
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	actions, err := store.QueryByKnowledge(ctx, s.store, knowledge.KindAction, knowledgeID, jobID, func() *knowledge.Action { return &knowledge.Action{} })
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	transitions, err := store.QueryByKnowledge(ctx, s.store, knowledge.KindTransition, knowledgeID, jobID, func() *knowledge.Transition { return &knowledge.Transition{} })
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	functions, err := store.QueryByKnowledge(ctx, s.store, knowledge.KindBusinessFunction, knowledgeID, jobID, func() *knowledge.BusinessFunction { return &knowledge.BusinessFunction{} })
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	workflows, err := store.QueryByKnowledge(ctx, s.store, knowledge.KindWorkflow, knowledgeID, jobID, func() *knowledge.OperationalWorkflow { return &knowledge.OperationalWorkflow{} })
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	userFlows, err := store.QueryByKnowledge(ctx, s.store, knowledge.KindUserFlow, knowledgeID, jobID, func() *knowledge.UserFlow { return &knowledge.UserFlow{} })
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, knowledgeResponse{
		Screens: screens,
		Tasks: tasks,
		Actions: actions,
		Transitions: transitions,
		BusinessFunctions: functions,
		Workflows: workflows,
		UserFlows: userFlows,
		Statistics: statistics{
			ScreenCount: len(screens),
			TaskCount: len(tasks),
			ActionCount: len(actions),
			TransitionCount: len(transitions),
			BusinessFunctionCount: len(functions),
			WorkflowCount: len(workflows),
			UserFlowCount: len(userFlows),
		},
	})
}
