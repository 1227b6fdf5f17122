package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// startPayload mirrors pkg/api's startRequest wire shape; duplicated rather
// than imported since that package's request types are unexported
// implementation detail of the HTTP layer, not a shared contract.
type startPayload struct {
	JobID       string   `json:"job_id"`
	KnowledgeID string   `json:"knowledge_id"`
	SourceType  string   `json:"source_type,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`
	SourceURLs  []string `json:"source_urls,omitempty"`
	SourceName  string   `json:"source_name,omitempty"`
}

func newStartCmd() *cobra.Command {
	var jobID, knowledgeID, sourceType, sourceURL, sourceName string
	var sourceURLs []string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new extraction job",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := startPayload{
				JobID:       jobID,
				KnowledgeID: knowledgeID,
				SourceType:  sourceType,
				SourceURL:   sourceURL,
				SourceURLs:  sourceURLs,
				SourceName:  sourceName,
			}
			var out map[string]any
			if err := doJSON(addrFlag(cmd), "POST", "/jobs", payload, &out); err != nil {
				return err
			}
			printJSON(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&jobID, "job-id", "", "job id (required)")
	cmd.Flags().StringVar(&knowledgeID, "knowledge-id", "", "knowledge base id (required)")
	cmd.Flags().StringVar(&sourceType, "source-type", "", "documentation|website|video (auto-detected if omitted)")
	cmd.Flags().StringVar(&sourceURL, "source-url", "", "single source URL or path")
	cmd.Flags().StringSliceVar(&sourceURLs, "source-urls", nil, "multiple source URLs (comma separated)")
	cmd.Flags().StringVar(&sourceName, "source-name", "", "source display name")
	_ = cmd.MarkFlagRequired("job-id")
	_ = cmd.MarkFlagRequired("knowledge-id")
	return cmd
}

func workflowActionCmd(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <workflow-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			if err := doJSON(addrFlag(cmd), "POST", fmt.Sprintf("/jobs/%s/%s", args[0], path), nil, &out); err != nil {
				return err
			}
			printJSON(out)
			return nil
		},
	}
}

func newPauseCmd() *cobra.Command  { return workflowActionCmd("pause", "Pause a running job", "pause") }
func newResumeCmd() *cobra.Command { return workflowActionCmd("resume", "Resume a paused job", "resume") }
func newCancelCmd() *cobra.Command { return workflowActionCmd("cancel", "Cancel a job", "cancel") }

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <workflow-id>",
		Short: "Show a job's current progress snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out map[string]any
			if err := doJSON(addrFlag(cmd), "GET", fmt.Sprintf("/jobs/%s/progress", args[0]), nil, &out); err != nil {
				return err
			}
			printJSON(out)
			return nil
		},
	}
}

func newKnowledgeCmd() *cobra.Command {
	var jobID string
	cmd := &cobra.Command{
		Use:   "knowledge <knowledge-id>",
		Short: "Query extracted knowledge for a knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/knowledge/%s", args[0])
			if jobID != "" {
				path += "?job_id=" + jobID
			}
			var out map[string]any
			if err := doJSON(addrFlag(cmd), "GET", path, nil, &out); err != nil {
				return err
			}
			printJSON(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&jobID, "job-id", "", "restrict to a specific job id (default: latest)")
	return cmd
}
