package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// createTestPDF writes an A4 document with labeled pages.
func createTestPDF(t *testing.T, name string, pages int, label string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 24)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.SetXY(20, 40)
		pdf.Cell(0, 15, fmt.Sprintf("%s - Page %d", label, i))
	}
	require.NoError(t, pdf.OutputFileAndClose(filename))
	return filename
}

func TestOverlayPage(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		overlayPages int
		expected     int
	}{
		{"same length", 2, 3, 2},
		{"single overlay page", 5, 1, 1},
		{"cycles after the last page", 3, 2, 1},
		{"second cycle", 4, 2, 2},
		{"first page", 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlayPage(tt.page, tt.overlayPages)
			if got != tt.expected {
				t.Errorf("overlayPage(%d, %d) = %d, want %d", tt.page, tt.overlayPages, got, tt.expected)
			}
		})
	}
}

func TestOverlayPDF(t *testing.T) {
	log := zap.NewNop().Sugar()

	t.Run("shorter overlay is cycled", func(t *testing.T) {
		base := createTestPDF(t, "base.pdf", 3, "Base")
		overlay := createTestPDF(t, "overlay.pdf", 2, "Overlay")
		output := filepath.Join(t.TempDir(), "output.pdf")

		n, err := overlayPDF(base, overlay, output, log)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		pages, err := api.PageCountFile(output)
		require.NoError(t, err)
		assert.Equal(t, 3, pages)
	})

	t.Run("longer overlay is truncated", func(t *testing.T) {
		base := createTestPDF(t, "base.pdf", 1, "Base")
		overlay := createTestPDF(t, "overlay.pdf", 4, "Overlay")
		output := filepath.Join(t.TempDir(), "output.pdf")

		n, err := overlayPDF(base, overlay, output, log)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		pages, err := api.PageCountFile(output)
		require.NoError(t, err)
		assert.Equal(t, 1, pages)
	})

	for _, name := range []string{"overlay", "a:b.pdf", "stamp.PDF"} {
		t.Run("overlay named "+name, func(t *testing.T) {
			base := createTestPDF(t, "base.pdf", 3, "Base")
			data, err := os.ReadFile(createTestPDF(t, "overlay.pdf", 2, "Overlay"))
			require.NoError(t, err)
			overlay := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(overlay, data, 0644))
			output := filepath.Join(t.TempDir(), "output.pdf")

			n, err := overlayPDF(base, overlay, output, log)
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			pages, err := api.PageCountFile(output)
			require.NoError(t, err)
			assert.Equal(t, 3, pages)
		})
	}

	t.Run("missing base", func(t *testing.T) {
		overlay := createTestPDF(t, "overlay.pdf", 1, "Overlay")
		_, err := overlayPDF("/nonexistent/base.pdf", overlay, filepath.Join(t.TempDir(), "o.pdf"), log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/nonexistent/base.pdf")
	})

	t.Run("missing overlay", func(t *testing.T) {
		base := createTestPDF(t, "base.pdf", 1, "Base")
		_, err := overlayPDF(base, "/nonexistent/overlay.pdf", filepath.Join(t.TempDir(), "o.pdf"), log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/nonexistent/overlay.pdf")
	})

	t.Run("not a PDF", func(t *testing.T) {
		base := createTestPDF(t, "base.pdf", 1, "Base")
		overlay := writeFile(t, "overlay.pdf", "plain text")
		_, err := overlayPDF(base, overlay, filepath.Join(t.TempDir(), "o.pdf"), log)
		assert.Error(t, err)
	})
}
