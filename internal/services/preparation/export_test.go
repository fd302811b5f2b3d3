package preparation

import (
	"bytes"
	"testing"

	"github.com/malabro/eshop-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() models.PreparationReport {
	orders := []models.Order{
		paidOrder("MALABRO-AAAAAA", "Awa Ndiaye", "awa@example.com", 2000, day(10, 9), item(tomatoes, "Tomatoes", 4)),
		paidOrder("MALABRO-BBBBBB", "Moussa Sène", "moussa@example.com", 1500, day(11, 9),
			item(tomatoes, "Tomatoes", 1), item(salad, "Salad", 2)),
	}
	rng, _ := ParseDateRange("2025-03-01", "2025-03-31")
	return Build(orders, rng, nil, now)
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"summary", "products", "orders"}, f.GetSheetList())

	paid, err := f.GetCellValue("summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2", paid)

	name, _ := f.GetCellValue("products", "A2")
	qty, _ := f.GetCellValue("products", "B2")
	assert.Equal(t, "Tomatoes", name)
	assert.Equal(t, "5", qty)

	rows, err := f.GetRows("orders")
	require.NoError(t, err)
	assert.Len(t, rows, 4) // header + 3 occurrences
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportUnknownFormat(t *testing.T) {
	_, _, err := Export(sampleReport(), "csv")
	assert.Error(t, err)

	_, contentType, err := Export(sampleReport(), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeXLSX, contentType)
}
