package output

import (
	"context"
	"time"
)

// MirrorGateway is the interface to the remote document mirror.
// Each push is one independent document-creation call; there is no
// update or delete path for documents already mirrored.
type MirrorGateway interface {
	// PushDocument uploads one operation document to the mirror
	PushDocument(ctx context.Context, req PushDocumentRequest) (*PushResult, error)
}

// PushDocumentRequest represents one document to mirror
type PushDocumentRequest struct {
	OperationID string // Source operation ID
	QueueItemID string // Local queue item ID (uuid)
	Content     []byte // JSON document
}

// PushResult describes where the document landed
type PushResult struct {
	RemotePath string    // e.g. s3://bucket/key
	Size       int64     // Bytes uploaded
	PushedAt   time.Time // Upload timestamp
}
