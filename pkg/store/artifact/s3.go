package artifact

import (
	"bytes"
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type s3Store struct {
	client *s3.Client
	bucket string
}

// NewS3 returns a store that uploads artifacts to the given bucket using the
// ambient AWS credential chain.
func NewS3(ctx context.Context, bucket string) (Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket cannot be empty")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &s3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
	}, nil
}

func (s *s3Store) Save(ctx context.Context, name string, data []byte) error {
	key := name + ".xlsx"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(s.bucket),
		Key:         awssdk.String(key),
		Body:        bytes.NewReader(data),
		ContentType: awssdk.String(xlsxContentType),
	})
	if err != nil {
		return fmt.Errorf("upload artifact %s to bucket %s: %w", key, s.bucket, err)
	}
	zerolog.Ctx(ctx).Info().Str("bucket", s.bucket).Str("key", key).Msg("artifact uploaded")
	return nil
}
