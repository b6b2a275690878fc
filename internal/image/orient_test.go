package image

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stored is a 3x2 image whose pixels are labelled 1..6 in row-major order:
//
//	1 2 3
//	4 5 6
func stored() []byte {
	src := make([]byte, 3*2*4)
	for i := range 6 {
		src[i*4] = byte(i + 1)
		src[i*4+3] = 0xff
	}
	return src
}

func labels(buf []byte) []byte {
	out := make([]byte, len(buf)/4)
	for i := range out {
		out[i] = buf[i*4]
	}
	return out
}

func TestOrient(t *testing.T) {
	tests := []struct {
		o     Orientation
		w, h  int
		label []byte
	}{
		{TopLeft, 3, 2, []byte{1, 2, 3, 4, 5, 6}},
		{TopRight, 3, 2, []byte{3, 2, 1, 6, 5, 4}},
		{BottomRight, 3, 2, []byte{6, 5, 4, 3, 2, 1}},
		{BottomLeft, 3, 2, []byte{4, 5, 6, 1, 2, 3}},
		{LeftTop, 2, 3, []byte{1, 4, 2, 5, 3, 6}},
		{RightTop, 2, 3, []byte{4, 1, 5, 2, 6, 3}},
		{RightBottom, 2, 3, []byte{6, 3, 5, 2, 4, 1}},
		{LeftBottom, 2, 3, []byte{3, 6, 2, 5, 1, 4}},
		{Orientation(0), 3, 2, []byte{1, 2, 3, 4, 5, 6}},
		{Orientation(9), 3, 2, []byte{1, 2, 3, 4, 5, 6}},
	}

	for _, tt := range tests {
		w, h := tt.o.Size(3, 2)
		if w != tt.w || h != tt.h {
			t.Errorf("Orientation(%d).Size(3, 2) = (%d, %d), want (%d, %d)", tt.o, w, h, tt.w, tt.h)
		}

		dst := make([]byte, 3*2*4)
		if err := Orient(dst, stored(), 3, 2, tt.o); err != nil {
			t.Fatalf("Orient(%d) error = %v", tt.o, err)
		}
		if diff := cmp.Diff(tt.label, labels(dst)); diff != "" {
			t.Errorf("Orient(%d) layout mismatch (-want +got):\n%s", tt.o, diff)
		}
	}
}

func TestOrient_KeepsChannels(t *testing.T) {
	src := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	dst := make([]byte, 8)
	if err := Orient(dst, src, 2, 1, RightTop); err != nil {
		t.Fatalf("Orient() error = %v", err)
	}
	want := []byte{10, 20, 30, 40, 50, 60, 70, 80}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOrient_Errors(t *testing.T) {
	if err := Orient(make([]byte, 4), make([]byte, 8), 2, 1, TopLeft); !errors.Is(err, ErrBufferSize) {
		t.Errorf("short dst: error = %v, want ErrBufferSize", err)
	}
	if err := Orient(nil, nil, 0, 1, RightTop); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width: error = %v, want ErrInvalidDimensions", err)
	}
}
