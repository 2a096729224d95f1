// Package importer reads asset inventory CSV exports and pre-warms the
// lookup cache with their records.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bvale/assetbridge/internal/assets"
	"github.com/bvale/assetbridge/internal/logging"
)

// Required header columns, in any order.
var requiredColumns = []string{"asset_tag", "name", "serial", "model", "status", "assigned_to"}

// Store receives validated asset records. Satisfied by assets.Service.
type Store interface {
	Store(asset assets.Asset)
}

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  int
}

// Import reads a CSV inventory export and stores every valid row. Rows with
// a missing asset tag are skipped and counted, not fatal; a malformed header
// is. Column order is taken from the header.
func Import(ctx context.Context, r io.Reader, store Store) (Result, error) {
	log := logging.FromContext(ctx)

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return Result{}, err
	}

	var result Result
	now := time.Now()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("failed to read CSV row: %w", err)
		}

		asset := rowToAsset(record, columns, now)
		if asset.Tag == "" {
			log.Warn().Strs("row", record).Msg("skipping CSV row without asset tag")
			result.Skipped++
			continue
		}

		store.Store(asset)
		result.Imported++
	}

	log.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("CSV import complete")
	return result, nil
}

// mapColumns resolves each required column to its index in the header.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("CSV header missing required columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

func rowToAsset(record []string, columns map[string]int, now time.Time) assets.Asset {
	field := func(name string) string {
		i := columns[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	return assets.Asset{
		Tag:        field("asset_tag"),
		Name:       field("name"),
		Serial:     field("serial"),
		Model:      field("model"),
		Status:     field("status"),
		AssignedTo: field("assigned_to"),
		UpdatedAt:  now,
	}
}
