package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"beercatalog/internal/domain"
	"beercatalog/internal/domain/models"
	"beercatalog/internal/repositories"
	"beercatalog/internal/utils"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogService renders a printable catalog sheet for one manufacturer.
type CatalogService struct {
	Manufacturers repositories.ManufacturerRepository
	Beers         repositories.BeerRepository
	Now           func() time.Time
	Loader        func(ctx context.Context, id int64) (catalogData, error)
}

type catalogData struct {
	Manufacturer models.Manufacturer
	Beers        []models.Beer
}

func (s CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ManufacturerSheet returns the PDF bytes and a download file name.
func (s CatalogService) ManufacturerSheet(ctx context.Context, id int64) ([]byte, string, error) {
	data, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(ctx, "catalog", "generate_sheet", "catalog sheet generated",
		zap.Int64("manufacturer_id", id), zap.Int("beers", len(data.Beers)))
	return buildCatalogPDF(data, s.now())
}

func (s CatalogService) load(ctx context.Context, id int64) (catalogData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, id)
	}
	var out catalogData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.Manufacturers.FindByID(gctx, id)
		out.Manufacturer = m
		return err
	})
	g.Go(func() error {
		beers, err := s.Beers.ListByManufacturer(gctx, id)
		out.Beers = beers
		return err
	})
	if err := g.Wait(); err != nil {
		return catalogData{}, domain.Unavailable(err)
	}
	return out, nil
}

func buildCatalogPDF(d catalogData, now time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Catalog "+d.Manufacturer.Name, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, strings.ToUpper(safe(d.Manufacturer.Name, "Manufacturer")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Country   : "+safe(d.Manufacturer.Country, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated : "+now.Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Beers     : %d", len(d.Beers)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(80, 8, "Name", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 8, "Style", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "ABV", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, b := range d.Beers {
		pdf.CellFormat(80, 7, truncate(b.Name, 40), "1", 0, "", false, 0, "")
		pdf.CellFormat(50, 7, truncate(safe(b.Style, "-"), 25), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, formatAbv(b.Abv), "1", 1, "R", false, 0, "")
	}
	if len(d.Beers) == 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "No beers published yet.", "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("CATALOG_%d_%s.pdf", d.Manufacturer.ID, safeFilenamePart(d.Manufacturer.Name))
	return buf.Bytes(), filename, nil
}

func formatAbv(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
