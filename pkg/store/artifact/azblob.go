package artifact

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/rs/zerolog"
)

type azblobStore struct {
	client    *azblob.Client
	container string
}

// NewAzBlob returns a store that uploads artifacts to an Azure Blob Storage
// container. The target is the container URL, e.g.
// https://myaccount.blob.core.windows.net/reports.
func NewAzBlob(target string) (Store, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse container URL %s: %w", target, err)
	}
	container := strings.Trim(parsed.Path, "/")
	if parsed.Host == "" || container == "" {
		return nil, fmt.Errorf("container URL %s must include account host and container name", target)
	}
	serviceURL := parsed.Scheme + "://" + parsed.Host

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve Azure credentials: %w", err)
	}
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client for %s: %w", serviceURL, err)
	}

	return &azblobStore{client: client, container: container}, nil
}

func (s *azblobStore) Save(ctx context.Context, name string, data []byte) error {
	blob := name + ".xlsx"
	_, err := s.client.UploadBuffer(ctx, s.container, blob, data, nil)
	if err != nil {
		return fmt.Errorf("upload artifact %s to container %s: %w", blob, s.container, err)
	}
	zerolog.Ctx(ctx).Info().Str("container", s.container).Str("blob", blob).Msg("artifact uploaded")
	return nil
}
