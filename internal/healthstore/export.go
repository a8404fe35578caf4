package healthstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/seunfola/repohealth/internal/parquet"
)

// ExecuteExport dumps every stored health record to a Parquet file.
func ExecuteExport(ctx context.Context, store *Store, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRecords == 0 {
		return errors.New("no health records found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total health records: %d\n", status.TotalRecords)

	records, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve health records: %w", err)
	}

	rows := parquet.ConvertHealthRecords(records)
	if err := parquet.WriteHealthRowsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write health records: %w", err)
	}
	fmt.Printf("Exported %d health records to: %s\n", len(rows), outputFile)

	fmt.Println("\nExport complete! The Parquet file can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
