package catalogsource

import (
	"context"
	"os"
)

// FileSource reads the catalog document from disk, for deployments that
// ship the dataset next to the binary. It re-reads on every call; the
// catalog store caches upstream.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(_ context.Context) ([]byte, error) {
	return os.ReadFile(s.Path)
}
