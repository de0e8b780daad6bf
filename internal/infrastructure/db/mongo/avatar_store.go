package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/storefront-api/internal/core/domain"
)

const avatarBucket = "avatars"

// AvatarStore keeps profile images in a GridFS bucket. The content type
// sniffed at upload time is stored in the file metadata.
type AvatarStore struct {
	bucket *gridfs.Bucket
}

func NewAvatarStore(db *mongo.Database) (*AvatarStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(avatarBucket))
	if err != nil {
		return nil, fmt.Errorf("open avatar bucket: %w", err)
	}
	return &AvatarStore{bucket: bucket}, nil
}

type avatarMetadata struct {
	ContentType string `bson:"content_type"`
}

func (s *AvatarStore) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	up, err := s.bucket.OpenUploadStream(filename,
		options.GridFSUpload().SetMetadata(avatarMetadata{ContentType: contentType}))
	if err != nil {
		return "", fmt.Errorf("open avatar upload: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = up.SetWriteDeadline(deadline)
	}
	if _, err := up.Write(data); err != nil {
		_ = up.Abort()
		return "", fmt.Errorf("write avatar: %w", err)
	}
	if err := up.Close(); err != nil {
		return "", fmt.Errorf("close avatar upload: %w", err)
	}

	oid, ok := up.FileID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected avatar id type %T", up.FileID)
	}
	return oid.Hex(), nil
}

func (s *AvatarStore) Open(ctx context.Context, id string) ([]byte, string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, "", domain.ErrAvatarNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ds, err := s.bucket.OpenDownloadStream(oid)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, "", domain.ErrAvatarNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("open avatar: %w", err)
	}
	defer ds.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = ds.SetReadDeadline(deadline)
	}

	data, err := io.ReadAll(ds)
	if err != nil {
		return nil, "", fmt.Errorf("read avatar: %w", err)
	}

	var meta avatarMetadata
	if raw := ds.GetFile().Metadata; len(raw) > 0 {
		if err := bson.Unmarshal(raw, &meta); err != nil {
			return nil, "", fmt.Errorf("decode avatar metadata: %w", err)
		}
	}
	return data, meta.ContentType, nil
}
