package badger

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

// Value header bytes.
const (
	formatRaw  byte = 0
	formatZstd byte = 1
)

// encMode uses Core Deterministic Encoding so equal records produce
// identical bytes.
var encMode cbor.EncMode

// zstdEncoder and zstdDecoder are reused across calls. Both are safe for
// concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("badger: CBOR encoder initialization failed: " + err.Error())
	}
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("badger: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("badger: zstd decoder initialization failed: " + err.Error())
	}
}

// encodeRecord serializes r, compressing when it helps.
func encodeRecord(r domain.Record) ([]byte, error) {
	raw, err := encMode.Marshal(map[string]string(r))
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	compressed := zstdEncoder.EncodeAll(raw, nil)
	if len(compressed) < len(raw) {
		return append([]byte{formatZstd}, compressed...), nil
	}
	return append([]byte{formatRaw}, raw...), nil
}

// decodeRecord reverses encodeRecord.
func decodeRecord(value []byte) (domain.Record, error) {
	if len(value) == 0 {
		return nil, fmt.Errorf("decoding record: empty value")
	}
	payload := value[1:]
	switch value[0] {
	case formatRaw:
	case formatZstd:
		var err error
		payload, err = zstdDecoder.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
	default:
		return nil, fmt.Errorf("decoding record: unknown format %d", value[0])
	}
	var r map[string]string
	if err := cbor.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return domain.Record(r), nil
}
