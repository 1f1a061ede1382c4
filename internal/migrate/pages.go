package migrate

import (
	"context"
	"fmt"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/hubapi"
	"github.com/johnwards/solarsail/internal/resolve"
)

// linked is a page on its way to the destination. destParentID is set once
// its translation link has been resolved.
type linked struct {
	entity       domain.Entity
	item         Item
	parentID     int64
	destParentID int64
}

// SyncPages copies every source page. Translations can only be linked once
// their primary-language page exists at the destination, so the copy runs as
// a two-phase fold: resolve-and-partition, submit what is ready, then retry
// the deferred pages exactly once. Pages still unresolved after the retry are
// reported as failed and never submitted.
func (s *Syncer) SyncPages(ctx context.Context) (*Report, error) {
	rep := newReport(ProcPages)
	s.reporter.Progress("Getting list of pages")

	pages, err := s.list(ctx, domain.PagesPath, hubapi.Source, s.opts.PageLimit)
	if err != nil {
		return rep, err
	}

	ready, deferred := s.partition(ctx, pages, rep)
	for _, p := range ready {
		s.submitPage(ctx, p, rep)
	}

	for _, p := range s.retry(ctx, deferred, rep) {
		s.submitPage(ctx, p, rep)
	}
	return rep, nil
}

// partition resolves every translation link once. Primary pages and pages
// whose parent already exists at the destination are ready; the rest are
// deferred.
func (s *Syncer) partition(ctx context.Context, pages []domain.Entity, rep *Report) (ready, deferred []*linked) {
	for _, page := range pages {
		p := &linked{
			entity:   page,
			item:     itemOf(domain.KindPage, page),
			parentID: page.TranslatedFromID(),
		}
		if p.parentID != 0 {
			if err := s.resolveParent(ctx, p); err != nil {
				p.item.Reason = err.Error()
				rep.Deferred = append(rep.Deferred, p.item)
				s.reporter.Warn("%s deferred: %s", p.item, err)
				deferred = append(deferred, p)
				continue
			}
		}
		ready = append(ready, p)
	}
	return ready, deferred
}

// retry gives each deferred page its second and last resolution attempt.
func (s *Syncer) retry(ctx context.Context, deferred []*linked, rep *Report) []*linked {
	var resolved []*linked
	for _, p := range deferred {
		if err := s.resolveParent(ctx, p); err != nil {
			s.fail(rep, p.item, err)
			continue
		}
		p.item.Reason = ""
		resolved = append(resolved, p)
	}
	return resolved
}

func (s *Syncer) resolveParent(ctx context.Context, p *linked) error {
	parent, err := s.resolver.ResolveParent(ctx, p.parentID, domain.PagesPath)
	if err != nil {
		s.logger.Debug("translation parent unresolved", "page", p.item.SourceID, "parent", p.parentID, "error", err)
		return err
	}
	if parent.ID() == 0 {
		return fmt.Errorf("parent %d: destination match has no id: %w", p.parentID, resolve.ErrNotFound)
	}
	p.destParentID = parent.ID()
	return nil
}

func (s *Syncer) submitPage(ctx context.Context, p *linked, rep *Report) {
	payload := domain.PagePayload(p.entity)
	if p.destParentID != 0 {
		payload["translated_from_id"] = p.destParentID
	}

	s.reporter.Progress("Syncing %s", p.item)
	created, err := s.create(ctx, domain.PagesPath, payload)
	if err != nil {
		s.fail(rep, p.item, err)
		return
	}
	s.succeed(rep, p.item, created)
}
