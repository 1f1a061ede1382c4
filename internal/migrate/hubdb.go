package migrate

import (
	"context"
	"fmt"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/hubapi"
)

// SyncHubDB copies every source table and then its rows. Rows reference the
// table id assigned by the destination, so a table whose create did not
// yield a usable id has its rows skipped.
func (s *Syncer) SyncHubDB(ctx context.Context) (*Report, error) {
	rep := newReport(ProcHubDB)

	tables, err := s.list(ctx, domain.HubDBTablesPath, hubapi.Source, s.opts.ListLimit)
	if err != nil {
		return rep, err
	}

	for _, table := range tables {
		item := itemOf(domain.KindHubDBTable, table)
		s.reporter.Progress("Creating new HubDB table: %s", item.Name)

		created, err := s.create(ctx, domain.HubDBTablesPath, domain.HubDBTablePayload(table))
		if err != nil {
			s.fail(rep, item, fmt.Errorf("%w; rows skipped", err))
			continue
		}
		newID := created.ID()
		if newID == 0 {
			s.fail(rep, item, fmt.Errorf("%w: destination returned no table id; rows skipped", ErrRejected))
			continue
		}
		s.succeed(rep, item, created)

		s.syncRows(ctx, table.ID(), newID, item.Name, rep)
	}
	return rep, nil
}

func (s *Syncer) syncRows(ctx context.Context, sourceTableID, destTableID int64, tableName string, rep *Report) {
	rows, err := s.list(ctx, domain.HubDBRowsPath(sourceTableID), hubapi.Source, s.opts.ListLimit)
	if err != nil {
		s.fail(rep, Item{Kind: domain.KindHubDBRow, Name: tableName + " rows"}, err)
		return
	}

	path := domain.HubDBRowsPath(destTableID)
	for _, row := range rows {
		item := Item{Kind: domain.KindHubDBRow, SourceID: row.ID(), Name: tableName}
		created, err := s.create(ctx, path, domain.HubDBRowPayload(row))
		if err != nil {
			s.fail(rep, item, err)
			continue
		}
		s.succeed(rep, item, created)
	}
}
