package ingest

import (
	"crypto/sha256"
	"encoding/hex"
)

// deriveIngestionID mirrors workflow.DeriveIngestionID's derivation rule
// (first 32 hex chars of SHA-256 of workflow_id:source_url:job_id) so a
// retried or resumed ingestion never mints a second id for the same source,
// without pkg/ingest importing pkg/workflow.
func deriveIngestionID(workflowID, sourceURL, jobID string) string {
	sum := sha256.Sum256([]byte(workflowID + ":" + sourceURL + ":" + jobID))
	return hex.EncodeToString(sum[:])[:32]
}
