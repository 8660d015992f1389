package store

// NoopRecorder is a no-op implementation used when history is disabled.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Save(_ *Run) error          { return nil }
func (n *NoopRecorder) List(_ int) ([]Run, error)  { return nil, nil }
func (n *NoopRecorder) Get(_ string) (*Run, error) { return nil, ErrNotFound }
func (n *NoopRecorder) Close() error               { return nil }
