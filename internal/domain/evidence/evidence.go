// Package evidence implements the evidence-list domain handlers
// (AE/PE/DE/EE) over a gorm catalog plus an S3-compatible object store for
// evidence images, grounded in the teacher's pkg/blocks/store/s3's
// client-construction and get/put/delete shape.
package evidence

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aoserver/aoserver/internal/aoproto"
	"github.com/aoserver/aoserver/internal/domain/listcache"
	"github.com/aoserver/aoserver/internal/logger"
	"github.com/aoserver/aoserver/internal/session"
	"github.com/aoserver/aoserver/internal/telemetry"
)

// PageSize is the number of evidence entries returned per AE page.
const PageSize = 10

// Evidence is the persisted catalog entry backing the AE/PE/DE/EE
// handlers, per SPEC_FULL.md §3's {id, name, description, image_key}
// shape.
type Evidence struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Description string
	ImageKey    string
}

func (Evidence) TableName() string { return "evidence" }

// ImageStoreConfig configures the S3-compatible bucket evidence images are
// uploaded to.
type ImageStoreConfig struct {
	Bucket         string
	Region         string
	Endpoint       string
	ForcePathStyle bool
}

// Store is the gorm-backed evidence catalog plus its S3 image bucket.
type Store struct {
	db     *gorm.DB
	s3     *s3.Client
	bucket string
	cache  *listcache.Cache
}

// New migrates the evidence table, builds an S3 client from cfg, and
// returns a ready Store. cache may be nil to disable page caching.
func New(ctx context.Context, db *gorm.DB, cfg ImageStoreConfig, cache *listcache.Cache) (*Store, error) {
	if err := db.AutoMigrate(&Evidence{}); err != nil {
		return nil, fmt.Errorf("migrating evidence schema: %w", err)
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = aws.String(cfg.Endpoint) })
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}

	return &Store{
		db:     db,
		s3:     s3.NewFromConfig(awsCfg, s3Opts...),
		bucket: cfg.Bucket,
		cache:  cache,
	}, nil
}

// Count returns the total number of catalog evidence entries.
func (st *Store) Count(ctx context.Context) (int, error) {
	var n int64
	if err := st.db.WithContext(ctx).Model(&Evidence{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting evidence: %w", err)
	}
	return int(n), nil
}

func (st *Store) invalidatePage(page uint32) {
	if st.cache != nil {
		_ = st.cache.Invalidate(listcache.Key("evidence", page))
	}
}

// EvidenceList implements session.Domain's AE handler.
func (st *Store) EvidenceList(ctx context.Context, s *session.Session, page uint32) error {
	ctx, span := telemetry.StartDomainSpan(ctx, telemetry.SpanEvidenceList, telemetry.SlotID(s.SlotID()), telemetry.Page(page))
	defer span.End()

	var rows []Evidence
	if err := st.db.WithContext(ctx).
		Order("id").
		Offset(int(page) * PageSize).
		Limit(PageSize).
		Find(&rows).Error; err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "listing evidence", err)
	}

	entries := make([]aoproto.EvidenceArgs, len(rows))
	for i, row := range rows {
		entries[i] = aoproto.EvidenceArgs{Name: row.Name, Description: row.Description, Image: row.ImageKey}
	}
	return s.Send(aoproto.EvidencePage{Page: page, Entries: entries})
}

// AddEvidence implements the PE handler: upload the image payload (if
// present) to the object store under a fresh key, then insert the row.
func (st *Store) AddEvidence(ctx context.Context, s *session.Session, args aoproto.EvidenceArgs) error {
	ctx, span := telemetry.StartDomainSpan(ctx, telemetry.SpanEvidenceAdd, telemetry.SlotID(s.SlotID()), telemetry.EvidenceName(args.Name))
	defer span.End()

	key, err := st.putImage(ctx, args.Image)
	if err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "uploading evidence image", err)
	}

	row := Evidence{Name: args.Name, Description: args.Description, ImageKey: key}
	if err := st.db.WithContext(ctx).Create(&row).Error; err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "inserting evidence", err)
	}

	st.invalidatePage(0)
	logger.InfoCtx(ctx, "evidence added", logger.EvidenceID(int(row.ID)))
	return nil
}

// DeleteEvidence implements the DE handler: remove the catalog row and
// its backing image object, if any.
func (st *Store) DeleteEvidence(ctx context.Context, s *session.Session, id uint32) error {
	ctx, span := telemetry.StartDomainSpan(ctx, telemetry.SpanEvidenceDelete, telemetry.SlotID(s.SlotID()), telemetry.EvidenceID(uint(id)))
	defer span.End()

	var row Evidence
	if err := st.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "loading evidence for delete", err)
	}

	if row.ImageKey != "" {
		if _, err := st.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(st.bucket),
			Key:    aws.String(row.ImageKey),
		}); err != nil {
			return aoproto.WrapError(aoproto.KindHandler, "deleting evidence image", err)
		}
	}

	if err := st.db.WithContext(ctx).Delete(&Evidence{}, id).Error; err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "deleting evidence", err)
	}

	st.invalidatePage(0)
	logger.InfoCtx(ctx, "evidence deleted", logger.EvidenceID(int(id)))
	return nil
}

// EditEvidence implements the EE handler: replace the image object (if a
// new payload was sent) and update the catalog row in place.
func (st *Store) EditEvidence(ctx context.Context, s *session.Session, id uint32, args aoproto.EvidenceArgs) error {
	ctx, span := telemetry.StartDomainSpan(ctx, telemetry.SpanEvidenceEdit, telemetry.SlotID(s.SlotID()), telemetry.EvidenceID(uint(id)))
	defer span.End()

	var row Evidence
	if err := st.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "loading evidence for edit", err)
	}

	key := row.ImageKey
	if args.Image != "" {
		newKey, err := st.putImage(ctx, args.Image)
		if err != nil {
			return aoproto.WrapError(aoproto.KindHandler, "uploading evidence image", err)
		}
		key = newKey
	}

	row.Name, row.Description, row.ImageKey = args.Name, args.Description, key
	if err := st.db.WithContext(ctx).Save(&row).Error; err != nil {
		return aoproto.WrapError(aoproto.KindHandler, "updating evidence", err)
	}

	st.invalidatePage(0)
	logger.InfoCtx(ctx, "evidence edited", logger.EvidenceID(int(id)))
	return nil
}

// putImage uploads a raw image payload under a fresh key and returns the
// key. An empty payload is a no-op that returns an empty key.
func (st *Store) putImage(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", nil
	}
	key := uuid.NewString()
	ctx, span := telemetry.StartDomainSpan(ctx, "content.write", telemetry.Bucket(st.bucket), telemetry.StorageKey(key))
	defer span.End()

	_, err := st.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader([]byte(payload)),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return key, nil
}

// FetchImage downloads the raw bytes for an evidence image key, for
// operator tooling and tests.
func (st *Store) FetchImage(ctx context.Context, key string) ([]byte, error) {
	resp, err := st.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
