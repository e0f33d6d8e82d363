package export

import (
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"OilLens/internal/model"
)

// PriceRecord is the parquet row layout of a series point.
type PriceRecord struct {
	Date  time.Time `parquet:"date,snappy"`
	Price float64   `parquet:"price,snappy"`
}

// WriteParquet writes s as date,price rows.
func WriteParquet(w io.Writer, s model.Series) error {
	records := make([]PriceRecord, len(s.Points))
	for i, p := range s.Points {
		records[i] = PriceRecord{Date: p.Date, Price: p.Price}
	}

	writer := parquet.NewGenericWriter[PriceRecord](w)
	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ReadParquet reads a file produced by WriteParquet.
func ReadParquet(r io.ReaderAt, name string) (model.Series, error) {
	reader := parquet.NewGenericReader[PriceRecord](r)
	defer func() { _ = reader.Close() }()

	records := make([]PriceRecord, reader.NumRows())
	n, err := reader.Read(records)
	if err != nil && err != io.EOF {
		return model.Series{}, fmt.Errorf("failed to read parquet rows: %w", err)
	}

	pts := make([]model.PricePoint, n)
	for i, rec := range records[:n] {
		pts[i] = model.PricePoint{Date: model.Day(rec.Date.UTC()), Price: rec.Price}
	}
	return model.Series{Name: name, Points: pts}, nil
}
