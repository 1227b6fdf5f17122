package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/llm"
)

const assistSystemPrompt = `You translate a high-level user instruction for a web application into a sequence of browser actions. Respond with a JSON object {"actions": [{"type": "navigate"|"click"|"send_keys"|"read_html", "selector": ".", "value": ".", "reason": "."}]}. Use "navigate" only when the instruction names a URL; otherwise prefer "click" and "send_keys" against the current page. Keep the sequence minimal.`

type assistPlan struct {
	Actions []assistAction `json:"actions"`
}

// handleAssist is the agent-assistance endpoint: it
// translates a high-level instruction into a browser action sequence via
// the same LLM client the extraction phases use, grounded on the chat/JSON
// completion contract in pkg/llm.Client.Complete.
func (s *Server) handleAssist(c *gin.Context) {
	if s.llm == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "no LLM client configured"})
		return
	}

	var req assistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	userPrompt := "Instruction: " + req.Instruction
	if req.CurrentURL != "" {
		userPrompt += "\nCurrent URL: " + req.CurrentURL
	}

	raw, err := s.llm.Complete(c.Request.Context(), assistSystemPrompt, userPrompt)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	var plan assistPlan
	if err := llm.ParseJSON(raw, &plan); err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: "could not parse action plan: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, assistResponse{Actions: plan.Actions})
}
