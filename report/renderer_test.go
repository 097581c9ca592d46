package report

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 12), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderLogReport(t *testing.T) {
	reports := []view.FileReport{
		{
			Filename: "server.log",
			Groups: []view.ErrorGroup{
				{
					Signature:             "ERROR_Connection_refused",
					RepresentativeMessage: "2024-01-02 10:00:00 ERROR Connection refused at 10.0.0.5",
					Explanation:           "La connexion à la base de données a été refusée.",
					Solution:              "Vérifier que le listener est démarré.",
					Count:                 7,
				},
				{
					Signature:             "FATAL_OutOfMemory",
					RepresentativeMessage: strings.Repeat("FATAL OutOfMemoryError in very long stack frame ", 10),
					Solution:              "Augmenter la taille du tas.",
					Count:                 2,
				},
			},
		},
		{Filename: "empty.log", Groups: nil},
	}

	data, err := NewRenderer().RenderLogReport(reports)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Greater(t, len(data), 1000)
}

func TestRenderLogReportEmpty(t *testing.T) {
	data, err := NewRenderer().RenderLogReport(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderImageReport(t *testing.T) {
	analyses := []view.ImageAnalysis{
		{
			ImageName:      "datasources.png",
			MimeType:       "image/png",
			ImageData:      samplePNG(t),
			Title:          "Sources de données",
			Labels:         []string{"Nom", "Etat"},
			Values:         [][]string{{"ds-orders", "OK"}, {"ds-billing", "KO"}},
			Conclusion:     "Une source de données est en échec.",
			Recommendation: "Corriger la configuration de ds-billing.",
		},
		{
			ImageName: "no-image.png",
			Title:     "Capture sans image",
		},
	}

	data, err := NewRenderer().RenderImageReport(analyses)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderImageReportRejectsUnknownImageType(t *testing.T) {
	analyses := []view.ImageAnalysis{
		{ImageName: "blob.bin", MimeType: "application/octet-stream", ImageData: []byte{1, 2, 3}},
	}
	_, err := NewRenderer().RenderImageReport(analyses)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image type")
}

func TestMergePDFs(t *testing.T) {
	renderer := NewRenderer()

	first, err := renderer.RenderLogReport([]view.FileReport{{Filename: "a.log"}})
	require.NoError(t, err)
	second, err := renderer.RenderImageReport([]view.ImageAnalysis{{ImageName: "b.png", Title: "B"}})
	require.NoError(t, err)

	merged, err := MergePDFs(first, second)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(merged, []byte("%PDF")))
	assert.Greater(t, len(merged), len(first))
}

func TestMergePDFsEmptyInput(t *testing.T) {
	_, err := MergePDFs()
	require.Error(t, err)
}
