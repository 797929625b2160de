// Package s3 firma URLs de subida directa para las imágenes de anuncios.
// El cliente sube el archivo con PUT y luego envía PublicURL en images[].
package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("storage: unsupported content type")
	ErrNotConfigured   = errors.New("storage: uploads not configured")
)

var extByType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Config mapea config.Uploads.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string
	PresignTTL      time.Duration
}

// Upload es lo que recibe el cliente.
type Upload struct {
	Method    string            `json:"method"`
	UploadURL string            `json:"uploadUrl"`
	PublicURL string            `json:"publicUrl"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

type Presigner struct {
	presign *awss3.PresignClient
	cfg     Config
	now     func() time.Time
}

// New arma el cliente. Con Endpoint se apunta a un S3 compatible
// (Yandex Object Storage, MinIO).
func New(ctx context.Context, c Config) (*Presigner, error) {
	if c.Bucket == "" {
		return nil, ErrNotConfigured
	}
	if c.PresignTTL <= 0 {
		c.PresignTTL = 15 * time.Minute
	}
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(c.Region)}
	if c.AccessKeyID != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")))
	}
	ac, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: aws config: %w", err)
	}
	client := awss3.NewFromConfig(ac, func(o *awss3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.UsePathStyle
	})
	return &Presigner{presign: awss3.NewPresignClient(client), cfg: c, now: time.Now}, nil
}

// PresignImage firma un PUT para una imagen nueva del usuario.
func (p *Presigner) PresignImage(ctx context.Context, userID, contentType string) (*Upload, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := extByType[ct]
	if !ok {
		return nil, ErrUnsupportedType
	}
	key := fmt.Sprintf("properties/%s/%s.%s", userID, uuid.NewString(), ext)

	req, err := p.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(p.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(ct),
	}, awss3.WithPresignExpires(p.cfg.PresignTTL))
	if err != nil {
		return nil, fmt.Errorf("storage: presign: %w", err)
	}

	return &Upload{
		Method:    req.Method,
		UploadURL: req.URL,
		PublicURL: p.PublicURL(key),
		Key:       key,
		Headers:   map[string]string{"Content-Type": ct},
		ExpiresAt: p.now().Add(p.cfg.PresignTTL).UTC(),
	}, nil
}

// PublicURL arma la URL de lectura. Sin PublicBaseURL usa el endpoint virtual-host de AWS.
func (p *Presigner) PublicURL(key string) string {
	if base := strings.TrimRight(p.cfg.PublicBaseURL, "/"); base != "" {
		return base + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, key)
}
