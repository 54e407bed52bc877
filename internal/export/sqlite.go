package export

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexanderramin/fiberpay/internal/db"
	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/alexanderramin/fiberpay/internal/repository"
)

// Bundle is everything a SQLite export contains.
type Bundle struct {
	Records   []domain.Record
	Summaries map[string]domain.Table
	Meta      map[string]string
}

// WriteSQLite stores b in a single transaction; on any failure nothing is
// written.
func WriteSQLite(ctx context.Context, uow db.UnitOfWork, b Bundle) error {
	return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		records := repository.NewSQLiteRecordRepo(tx)
		summaries := repository.NewSQLiteSummaryRepo(tx)
		meta := repository.NewSQLiteMetaRepo(tx)

		for i := range b.Records {
			if err := records.Create(ctx, &b.Records[i]); err != nil {
				return fmt.Errorf("exporting record %d: %w", b.Records[i].RowIndex, err)
			}
		}

		names := make([]string, 0, len(b.Summaries))
		for name := range b.Summaries {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := summaries.Save(ctx, name, b.Summaries[name]); err != nil {
				return fmt.Errorf("exporting summary: %w", err)
			}
		}

		keys := make([]string, 0, len(b.Meta))
		for k := range b.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := meta.Set(ctx, k, b.Meta[k]); err != nil {
				return err
			}
		}
		return meta.Stamp(ctx)
	})
}
