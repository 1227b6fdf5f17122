package knowledge

// Env returns a pointer to the entity's shared Envelope, satisfying the
// store.Envelope interface used by the generic save/query helpers.
func (s *Screen) Env() *Envelope { return &s.Envelope }

// Env returns a pointer to the entity's shared Envelope.
func (t *Task) Env() *Envelope { return &t.Envelope }

// Env returns a pointer to the entity's shared Envelope.
func (a *Action) Env() *Envelope { return &a.Envelope }

// Env returns a pointer to the entity's shared Envelope.
func (tr *Transition) Env() *Envelope { return &tr.Envelope }

// Env returns a pointer to the entity's shared Envelope.
func (b *BusinessFunction) Env() *Envelope { return &b.Envelope }

// Env returns a pointer to the entity's shared Envelope.
func (b *BusinessFeature) Env() *Envelope { return &b.Envelope }

// Env returns a pointer to the entity's shared Envelope.
func (w *OperationalWorkflow) Env() *Envelope { return &w.Envelope }

// Env returns a pointer to the entity's shared Envelope.
func (f *UserFlow) Env() *Envelope { return &f.Envelope }
