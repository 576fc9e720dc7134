package sink

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"fourree/internal/config"
	"fourree/internal/encode"
)

// S3 rejects non-final parts smaller than 5 MiB, so encoded batches are
// buffered until a part reaches that size.
const s3MinPartSize = 5 * 1024 * 1024

// s3API is the slice of the S3 client the sink uses. Tests substitute a
// fake; production passes *s3.Client.
type s3API interface {
	CreateMultipartUpload(ctx context.Context, in *s3.CreateMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	UploadPart(ctx context.Context, in *s3.UploadPartInput, opts ...func(*s3.Options)) (*s3.UploadPartOutput, error)
	CompleteMultipartUpload(ctx context.Context, in *s3.CompleteMultipartUploadInput, opts ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, in *s3.AbortMultipartUploadInput, opts ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
}

// s3Sink streams encoder output to an S3 object via a multipart upload.
// The upload is created when the sink opens and either completed on
// Close or aborted on the first failure.
type s3Sink struct {
	ctx      context.Context
	client   s3API
	enc      encode.Encoder
	bucket   string
	key      string
	uploadID string

	buf        bytes.Buffer
	partNumber int32
	parts      []types.CompletedPart
	aborted    bool
}

func openS3(ctx context.Context, cfg config.Config, enc encode.Encoder) (*s3Sink, error) {
	bucket, key, ok := strings.Cut(cfg.OutputFile, ":")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("output file must follow the format bucket:key when output is %q", config.OutputS3)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newS3Sink(ctx, s3.NewFromConfig(awsCfg), enc, bucket, key)
}

func newS3Sink(ctx context.Context, client s3API, enc encode.Encoder, bucket, key string) (*s3Sink, error) {
	slog.Info("initiating multipart S3 upload", "bucket", bucket, "key", key)
	out, err := client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("create multipart upload: %w", err)
	}
	if out.UploadId == nil || *out.UploadId == "" {
		return nil, fmt.Errorf("no upload ID returned from S3")
	}

	return &s3Sink{
		ctx:      ctx,
		client:   client,
		enc:      enc,
		bucket:   bucket,
		key:      key,
		uploadID: *out.UploadId,
	}, nil
}

func (s *s3Sink) WriteHeader() (int64, error) {
	header := s.enc.Header()
	if header == nil {
		return 0, nil
	}
	s.buf.Write(header)
	return int64(len(header)), nil
}

func (s *s3Sink) WriteBatch(rows [][]string) (int64, error) {
	data, err := s.enc.EncodeBatch(rows)
	if err != nil {
		return 0, err
	}
	s.buf.Write(data)
	if s.buf.Len() >= s3MinPartSize {
		if err := s.flushPart(); err != nil {
			s.abort()
			return 0, err
		}
	}
	return int64(len(data)), nil
}

// flushPart uploads the buffered bytes as the next part.
func (s *s3Sink) flushPart() error {
	if s.buf.Len() == 0 {
		return nil
	}
	s.partNumber++
	slog.Debug("writing part to S3", "part", s.partNumber, "bytes", s.buf.Len())

	out, err := s.client.UploadPart(s.ctx, &s3.UploadPartInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(s.key),
		UploadId:   aws.String(s.uploadID),
		PartNumber: aws.Int32(s.partNumber),
		Body:       bytes.NewReader(s.buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("upload part %d: %w", s.partNumber, err)
	}

	s.parts = append(s.parts, types.CompletedPart{
		ETag:       out.ETag,
		PartNumber: aws.Int32(s.partNumber),
	})
	s.buf.Reset()
	return nil
}

// Close uploads any remaining partial part and completes the upload.
// Any failure aborts the upload so S3 does not keep billing for
// orphaned parts.
func (s *s3Sink) Close() error {
	if s.aborted {
		return nil
	}
	if err := s.flushPart(); err != nil {
		s.abort()
		return err
	}

	slog.Info("completing multipart upload", "bucket", s.bucket, "key", s.key, "parts", len(s.parts))
	_, err := s.client.CompleteMultipartUpload(s.ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(s.key),
		UploadId: aws.String(s.uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: s.parts,
		},
	})
	if err != nil {
		s.abort()
		return fmt.Errorf("complete multipart upload: %w", err)
	}
	return nil
}

// abort gives up on the upload. An abort failure is logged, not
// returned: the original error matters more to the caller.
func (s *s3Sink) abort() {
	if s.aborted {
		return
	}
	s.aborted = true
	slog.Warn("aborting multipart upload", "bucket", s.bucket, "key", s.key)
	_, err := s.client.AbortMultipartUpload(s.ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(s.key),
		UploadId: aws.String(s.uploadID),
	})
	if err != nil {
		slog.Error("failed to abort upload, please abort via the S3 API", "error", err)
	}
}
