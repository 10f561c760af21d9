// Package s3 stores recordings as objects of an S3 bucket. Objects are
// named "<prefix><id>.<extension>".
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/store"
)

func init() {
	store.Register("s3", func(ctx context.Context, o store.Options) (store.Store, error) {
		if o.Bucket == "" {
			return nil, errors.New("s3: bucket name is required")
		}
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3: load SDK config: %w", err)
		}
		return New(s3.NewFromConfig(cfg), o.Bucket, o.Prefix), nil
	})
}

// API is the part of *s3.Client used by the store.
type API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store is an S3 backed store.Store.
type Store struct {
	client API
	bucket string
	prefix string
}

var _ store.Store = (*Store)(nil)

// New creates a store in bucket. Every key starts with prefix.
func New(client API, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) key(id, ext string) string {
	return s.prefix + id + "." + ext
}

func (s *Store) Create(ctx context.Context, extension string, data []byte) (store.Recording, error) {
	rec := store.Recording{
		ID:        store.NewID(),
		Extension: store.CleanExtension(extension),
		Size:      int64(len(data)),
		Data:      data,
	}
	rec.CreatedAt = store.CreatedAt(rec.ID)
	key := s.key(rec.ID, rec.Extension)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(rec.Size),
	})
	if err != nil {
		return store.Recording{}, fmt.Errorf("s3: put %s: %w", key, err)
	}
	screencast.Logger().Debug("store: recording created", "id", rec.ID, "key", key)
	return rec, nil
}

// find returns the key and extension of the recording id.
func (s *Store) find(ctx context.Context, id string) (key, ext string, err error) {
	if err := store.CheckID(id); err != nil {
		return "", "", err
	}
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.prefix + id + "."),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return "", "", fmt.Errorf("s3: find %s: %w", id, err)
	}
	if len(out.Contents) == 0 {
		return "", "", store.ErrNotFound
	}
	key = aws.ToString(out.Contents[0].Key)
	return key, strings.TrimPrefix(key, s.prefix+id+"."), nil
}

func (s *Store) Get(ctx context.Context, id string) (store.Recording, error) {
	key, ext, err := s.find(ctx, id)
	if err != nil {
		return store.Recording{}, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return store.Recording{}, store.ErrNotFound
		}
		return store.Recording{}, fmt.Errorf("s3: get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return store.Recording{}, fmt.Errorf("s3: read %s: %w", key, err)
	}
	return store.Recording{
		ID:        id,
		Extension: ext,
		Size:      int64(len(data)),
		CreatedAt: store.CreatedAt(id),
		Data:      data,
	}, nil
}

func (s *Store) List(ctx context.Context) ([]store.Recording, error) {
	list := []store.Recording{}
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3: list recordings: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			id, ext, ok := strings.Cut(name, ".")
			if !ok || store.CheckID(id) != nil {
				continue
			}
			list = append(list, store.Recording{
				ID:        id,
				Extension: ext,
				Size:      aws.ToInt64(obj.Size),
				CreatedAt: store.CreatedAt(id),
			})
		}
	}
	return list, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	key, _, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
