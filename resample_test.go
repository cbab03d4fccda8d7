package main

import (
	"bytes"
	"testing"
)

func TestResample_SameSizeIsPassthrough(t *testing.T) {
	src := rasterFromNRGBA(makeTestImage(13, 7))
	want := append([]byte(nil), src.Pix...)
	got := resample(src, 13, 7, 4)
	if got != src {
		t.Fatalf("expected the input raster back")
	}
	if !bytes.Equal(got.Pix, want) {
		t.Fatalf("pixels changed")
	}
}

func TestResample_NearestNeighbour(t *testing.T) {
	src := NewRaster(4, 4)
	for i := 0; i < 16; i++ {
		src.Pix[i*4] = byte(i)
		src.Pix[i*4+3] = 0xff
	}

	down := resample(src, 2, 2, 1)
	if got, want := []byte{down.Pix[0], down.Pix[4], down.Pix[8], down.Pix[12]}, []byte{0, 2, 8, 10}; !bytes.Equal(got, want) {
		t.Fatalf("2x2 picks %v, want %v", got, want)
	}

	odd := resample(src, 3, 1, 1)
	if got, want := []byte{odd.Pix[0], odd.Pix[4], odd.Pix[8]}, []byte{0, 1, 2}; !bytes.Equal(got, want) {
		t.Fatalf("3x1 picks %v, want %v", got, want)
	}
}

func TestResample_WorkerCountDoesNotMatter(t *testing.T) {
	src := rasterFromNRGBA(makeTestImage(101, 67))
	one := resample(src, 50, 31, 1)
	for _, workers := range []int{2, 3, 8, 64} {
		got := resample(src, 50, 31, workers)
		if !bytes.Equal(got.Pix, one.Pix) {
			t.Fatalf("workers=%d differs from serial result", workers)
		}
	}
}

func TestFitSize(t *testing.T) {
	for _, tc := range []struct {
		name         string
		w, h         int
		geo          Geometry
		haveGeo      bool
		budget       int
		wantW, wantH int
	}{
		{name: "no_terminal", w: 4000, h: 2000, wantW: 4000, wantH: 2000},
		{name: "fits", w: 100, h: 50, geo: Geometry{Cols: 80, Rows: 24}, haveGeo: true, wantW: 100, wantH: 50},
		{name: "default_cell", w: 1280, h: 640, geo: Geometry{Cols: 80, Rows: 24}, haveGeo: true, wantW: 640, wantH: 320},
		{name: "reported_cell", w: 2000, h: 1000, geo: Geometry{Cols: 100, Rows: 50, PixelWidth: 1000, PixelHeight: 1000}, haveGeo: true, wantW: 1000, wantH: 500},
		{name: "zero_pixels", w: 2000, h: 1000, geo: Geometry{Cols: 100, Rows: 50, PixelWidth: 0, PixelHeight: 700}, haveGeo: true, wantW: 800, wantH: 400},
		{name: "override", w: 300, h: 90, budget: 100, wantW: 100, wantH: 30},
		{name: "never_upscale", w: 50, h: 40, budget: 500, wantW: 50, wantH: 40},
		{name: "min_height", w: 1000, h: 1, budget: 10, wantW: 10, wantH: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w, h := fitSize(tc.w, tc.h, tc.geo, tc.haveGeo, tc.budget)
			if w != tc.wantW || h != tc.wantH {
				t.Fatalf("fitSize = %dx%d, want %dx%d", w, h, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestGeometry_CellSize(t *testing.T) {
	if w, h := (Geometry{}).CellSize(); w != 8 || h != 16 {
		t.Fatalf("default cell = %dx%d", w, h)
	}
	if w, h := (Geometry{Cols: 80, Rows: 24, PixelWidth: 800, PixelHeight: 480}).CellSize(); w != 10 || h != 20 {
		t.Fatalf("reported cell = %dx%d", w, h)
	}
}
