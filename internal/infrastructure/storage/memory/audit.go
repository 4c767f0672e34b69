package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "bizdesk/internal/core/context"
	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used for stored changes.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the change-set size above which entries are compressed.
const DefaultCompressThreshold = 1024

type storedEntry struct {
	entry      audit.Entry
	compressed []byte
	algo       CompressionAlgo
}

// AuditLog keeps the audit trail inside the store, so it rolls back with the
// transaction that produced it. Large change sets are kept zstd-compressed.
type AuditLog struct {
	store             *Store
	entries           []storedEntry
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ audit.Recorder = (*AuditLog)(nil)

// NewAuditLog attaches an audit log to the store.
func NewAuditLog(store *Store, compressThreshold int) (*AuditLog, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if compressThreshold <= 0 {
		compressThreshold = DefaultCompressThreshold
	}

	l := &AuditLog{
		store:             store,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: compressThreshold,
	}
	store.register(l)
	return l, nil
}

func (l *AuditLog) snapshot() func() {
	n := len(l.entries)
	return func() {
		l.entries = l.entries[:n]
	}
}

// Record implements audit.Recorder.
func (l *AuditLog) Record(ctx context.Context, entry audit.Entry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Actor == "" {
		entry.Actor = appctx.GetActorName(ctx)
	}

	stored := storedEntry{entry: entry, algo: CompressionNone}
	if len(entry.Changes) > l.compressThreshold {
		stored.compressed = l.encoder.EncodeAll(entry.Changes, nil)
		stored.entry.Changes = nil
		stored.algo = CompressionZstd
	}

	return l.store.write(ctx, l, func() error {
		l.entries = append(l.entries, stored)
		return nil
	})
}

// History returns entries for an entity, newest first, decompressing as needed.
func (l *AuditLog) History(ctx context.Context, entityID id.ID) ([]audit.Entry, error) {
	var (
		out []audit.Entry
		err error
	)
	l.store.read(ctx, func() {
		for i := len(l.entries) - 1; i >= 0; i-- {
			s := l.entries[i]
			if s.entry.EntityID != entityID {
				continue
			}
			e := s.entry
			if s.algo == CompressionZstd {
				var raw []byte
				raw, err = l.decoder.DecodeAll(s.compressed, nil)
				if err != nil {
					err = fmt.Errorf("decompress changes: %w", err)
					return
				}
				e.Changes = json.RawMessage(raw)
			}
			out = append(out, e)
		}
	})
	return out, err
}

// CompressedCount reports how many entries are stored compressed.
func (l *AuditLog) CompressedCount(ctx context.Context) int {
	n := 0
	l.store.read(ctx, func() {
		for _, s := range l.entries {
			if s.algo == CompressionZstd {
				n++
			}
		}
	})
	return n
}
