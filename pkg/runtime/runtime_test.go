package runtime

import (
	"math/big"
	"testing"
)

func TestScalarsDecodesLittleEndian32ByteChunks(t *testing.T) {
	out := make([]byte, 64)
	out[0] = 7      // first scalar = 7 (little-endian)
	out[32+1] = 1   // second scalar = 256

	scalars := Scalars(out)
	if len(scalars) != 2 {
		t.Fatalf("expected 2 scalars, got %d", len(scalars))
	}
	if scalars[0].Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("expected first scalar 7, got %s", scalars[0])
	}
	if scalars[1].Cmp(big.NewInt(256)) != 0 {
		t.Fatalf("expected second scalar 256, got %s", scalars[1])
	}
}

func TestDecodeRunResultRejectsWrongShape(t *testing.T) {
	cases := []interface{}{
		nil,
		int32(1),
		[]interface{}{int32(1)},
		[]interface{}{int32(1), "not an i32"},
	}
	for _, c := range cases {
		if _, _, err := decodeRunResult(c); err == nil {
			t.Fatalf("expected error decoding %#v", c)
		}
	}
}

func TestDecodeRunResultAcceptsTwoI32s(t *testing.T) {
	ptr, length, err := decodeRunResult([]interface{}{int32(4), int32(64)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ptr != 4 || length != 64 {
		t.Fatalf("expected (4, 64), got (%d, %d)", ptr, length)
	}
}
