package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// InvoiceArchiveTTL est la durée de validité des liens signés vers les PDF archivés
const InvoiceArchiveTTL = 24 * time.Hour

// InvoiceArchive stocke les PDF générés et fournit des liens de téléchargement
type InvoiceArchive interface {
	Store(ctx context.Context, orderNumber string, pdf []byte) error
	SignedURL(ctx context.Context, orderNumber string) (string, error)
}

// MinioArchive range les factures sous invoices/<orderNumber>.pdf
type MinioArchive struct {
	client *minio.Client
	bucket string
}

func NewMinioArchive(client *minio.Client, bucket string) *MinioArchive {
	return &MinioArchive{client: client, bucket: bucket}
}

func invoiceObjectKey(orderNumber string) string {
	return fmt.Sprintf("invoices/%s.pdf", orderNumber)
}

func (a *MinioArchive) Store(ctx context.Context, orderNumber string, pdf []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, invoiceObjectKey(orderNumber),
		bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	return err
}

func (a *MinioArchive) SignedURL(ctx context.Context, orderNumber string) (string, error) {
	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, orderNumber))

	u, err := a.client.PresignedGetObject(ctx, a.bucket, invoiceObjectKey(orderNumber), InvoiceArchiveTTL, reqParams)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
