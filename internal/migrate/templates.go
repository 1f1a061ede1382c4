package migrate

import (
	"context"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/hubapi"
	"github.com/johnwards/solarsail/internal/resolve"
)

// SyncTemplates copies source templates whose path is not already taken at
// the destination.
func (s *Syncer) SyncTemplates(ctx context.Context) (*Report, error) {
	rep := newReport(ProcTemplates)

	source, err := s.list(ctx, domain.TemplatesPath, hubapi.Source, s.opts.ListLimit)
	if err != nil {
		return rep, err
	}
	dest, err := s.list(ctx, domain.TemplatesPath, hubapi.Destination, s.opts.ListLimit)
	if err != nil {
		return rep, err
	}
	existing := resolve.NewIndex("path", dest)

	for _, tmpl := range source {
		item := itemOf(domain.KindTemplate, tmpl)
		if _, err := existing.Find(tmpl.String("path")); err == nil {
			s.skip(rep, item, "already present at destination")
			continue
		}
		created, err := s.create(ctx, domain.TemplatesPath, domain.TemplatePayload(tmpl))
		if err != nil {
			s.fail(rep, item, err)
			continue
		}
		existing.Add(created)
		s.succeed(rep, item, created)
	}
	return rep, nil
}
