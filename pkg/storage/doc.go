// Package storage reads attachment objects from S3-compatible storage.
//
// Attachments may be referenced as s3://bucket/key URLs. The relay only ever
// reads objects; it never writes, lists or presigns.
//
//	store, err := storage.New(ctx, cfg.S3)
//	if err != nil {
//	    return err
//	}
//	bucket, key, err := storage.ParseURL("s3://invoices/2026/04/inv-17.pdf")
//	body, err := store.Get(ctx, bucket, key)
//	defer body.Close()
//
// Errors map to the sentinels in this package: ErrNotFound for missing
// objects or buckets, ErrAccessDenied for permission failures, ErrReadFailed
// for everything else. Works with AWS S3 and with MinIO or other
// S3-compatible servers through Endpoint and PathStyle.
package storage
