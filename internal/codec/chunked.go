package codec

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/digest"
)

// encodeChunks splits text into chunkSize-rune pieces linked into a chain.
// Each chunk is named by its ordinal and parented to the previous chunk.
func (c *Codec) encodeChunks(text, parameterID string) ([]domain.ParameterAttribute, []domain.AttributeValue) {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	n := (len(runes) + c.chunkSize - 1) / c.chunkSize
	attrs := make([]domain.ParameterAttribute, 0, n)
	values := make([]domain.AttributeValue, 0, n)

	prev := ""
	for i := 0; i < n; i++ {
		start := i * c.chunkSize
		end := min(start+c.chunkSize, len(runes))
		chunk := string(runes[start:end])
		ordinal := strconv.Itoa(i)

		id := digest.Fields(parameterID, prev, ordinal, chunk)
		attrs = append(attrs, domain.ParameterAttribute{
			ParameterID:         parameterID,
			AttributeID:         id,
			PreviousAttributeID: prev,
		})
		values = append(values, domain.AttributeValue{
			AttributeID: id,
			Name:        ordinal,
			Value:       chunk,
			Kind:        domain.KindChunk,
		})
		prev = id
	}
	return attrs, values
}

// decodeChunks concatenates chunk values in ordinal order.
// Ordinals must run 0..n-1 without gaps, and when links are supplied each
// chunk must be parented to its predecessor.
func decodeChunks(values []domain.AttributeValue, links []domain.ParameterAttribute) (string, error) {
	byOrdinal := make(map[int]domain.AttributeValue, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v.AttributeID] {
			continue
		}
		seen[v.AttributeID] = true

		idx, err := strconv.Atoi(v.Name)
		if err != nil || idx < 0 {
			return "", fmt.Errorf("%w: chunk %s has ordinal %q", domain.ErrReconstruction, v.AttributeID, v.Name)
		}
		if _, dup := byOrdinal[idx]; dup {
			return "", fmt.Errorf("%w: duplicate chunk ordinal %d", domain.ErrReconstruction, idx)
		}
		byOrdinal[idx] = v
	}

	parents := make(map[string]string, len(links))
	for _, l := range links {
		parents[l.AttributeID] = l.PreviousAttributeID
	}

	var b strings.Builder
	prev := ""
	for i := 0; i < len(byOrdinal); i++ {
		v, ok := byOrdinal[i]
		if !ok {
			return "", fmt.Errorf("%w: missing chunk %d of %d", domain.ErrReconstruction, i, len(byOrdinal))
		}
		if len(links) > 0 {
			parent, linked := parents[v.AttributeID]
			if !linked || parent != prev {
				return "", fmt.Errorf("%w: chunk %d is not linked to chunk %d", domain.ErrReconstruction, i, i-1)
			}
		}
		b.WriteString(v.Value)
		prev = v.AttributeID
	}
	return b.String(), nil
}

// encodeBinary turns bytes into text that survives chunking.
func encodeBinary(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

func decodeBinary(text string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding binary payload: %w", domain.ErrReconstruction, err)
	}
	return raw, nil
}
