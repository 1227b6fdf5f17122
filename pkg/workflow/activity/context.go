// Package activity defines the dependency-carrying context activities run
// with and the retry/idempotency wrapper around their execution. There is
// no package-level global state: every collaborator an activity needs —
// database, cache,
// LLM client, browser driver, object store — is threaded in explicitly
// through Context, the way tarsy threads *ent.Client and *config.Config
// through its worker and queue packages rather than reaching for globals.
package activity

import (
	"log/slog"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/browser"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/llm"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/objectstore"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

// Context bundles everything an activity function needs to run, passed by
// value into every activity so each one is independently testable with
// fakes substituted for any field.
type Context struct {
	Store *store.Store
	LLM llm.Client
	Browser browser.Driver
	Objects objectstore.Store
	Config *config.Config
	Log *slog.Logger
}
