package uploads

import (
	"context"
	"healthcard-service/internal/app/contracts"
	"healthcard-service/internal/pkg/exceptions"
	"os"
	"strings"
)

// localFileSource reads receipt files from the local filesystem. URIs may
// carry a file:// prefix; anything else is treated as a plain path.
type localFileSource struct{}

func NewLocalFileSource() contracts.FileSource {
	return &localFileSource{}
}

func (s *localFileSource) Probe(ctx context.Context, uri string) error {
	if _, err := os.Stat(stripFileScheme(uri)); err != nil {
		return exceptions.ErrFileProbe(err, uri)
	}
	return nil
}

func (s *localFileSource) Read(ctx context.Context, uri string) ([]byte, error) {
	data, err := os.ReadFile(stripFileScheme(uri))
	if err != nil {
		return nil, exceptions.ErrFileProbe(err, uri)
	}
	return data, nil
}

func stripFileScheme(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
