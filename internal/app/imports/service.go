package imports

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
	"github.com/Overland-East-Bay/club-subscriptions/internal/platform/metrics"
	clockport "github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/clock"
	"github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/importrepo"
	"github.com/Overland-East-Bay/club-subscriptions/internal/recordmap"
	"github.com/Overland-East-Bay/club-subscriptions/internal/rowsource"
)

type Service struct {
	repo importrepo.Repository
	clk  clockport.Clock

	newImportID func() domain.ImportID

	// DefaultSchema is used when an import does not name one.
	DefaultSchema string
	// PersonOffset is the end_dt shift of the person schema.
	PersonOffset time.Duration

	Logger  *slog.Logger
	Metrics *metrics.Imports
}

func NewService(repo importrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newImportID: func() domain.ImportID {
			return domain.ImportID(uuid.NewString())
		},
		DefaultSchema: recordmap.SchemaSubscription,
		PersonOffset:  recordmap.DefaultPersonOffset,
		Logger:        slog.Default(),
	}
}

// Mapper resolves a schema name ("" for the default) to a ready mapper.
func (s *Service) Mapper(schema string) (*recordmap.Mapper, error) {
	if schema == "" {
		schema = s.DefaultSchema
	}
	sc, err := recordmap.SchemaByName(schema, s.PersonOffset)
	if err != nil {
		return nil, &Error{
			Status:  422,
			Code:    "UNKNOWN_SCHEMA",
			Message: "unknown import schema",
			Details: map[string]any{"schema": schema, "allowed": recordmap.SchemaNames()},
			Err:     err,
		}
	}
	return recordmap.NewMapper(sc)
}

// ParseFile parses an export on disk with the default schema. Errors are the recordmap
// ones, unchanged.
func (s *Service) ParseFile(path string) ([]domain.Subscription, error) {
	m, err := s.Mapper("")
	if err != nil {
		return nil, err
	}
	return m.ParseFile(path)
}

// Import parses an uploaded export and stores it as one batch. Nothing is stored unless
// every row maps.
func (s *Service) Import(ctx context.Context, in ImportInput) (domain.ImportSummary, error) {
	start := s.clk.Now()
	m, err := s.Mapper(in.Schema)
	if err != nil {
		return domain.ImportSummary{}, err
	}
	schema := m.Schema().Name
	log := s.Logger.With("schema", schema, "source", in.Source)

	subs, err := s.read(m, in)
	if err != nil {
		s.Metrics.Observe(schema, metrics.OutcomeRejected, 0, s.clk.Now().Sub(start))
		attrs := []any{"error", err}
		if ve := (*recordmap.ValidationError)(nil); errors.As(err, &ve) {
			attrs = append(attrs, "row", ve.Row, "fields", ve.Fields())
		}
		log.Info("import rejected", attrs...)
		return domain.ImportSummary{}, err
	}

	imp := domain.Import{
		ID:            s.newImportID(),
		Source:        in.Source,
		Schema:        schema,
		Subscriptions: subs,
		CreatedAt:     s.clk.Now(),
	}
	if err := s.repo.Save(ctx, imp); err != nil {
		s.Metrics.Observe(schema, metrics.OutcomeFailed, 0, s.clk.Now().Sub(start))
		log.Error("import not stored", "error", err)
		return domain.ImportSummary{}, err
	}

	s.Metrics.Observe(schema, metrics.OutcomeStored, len(subs), s.clk.Now().Sub(start))
	log.Info("import stored", "import_id", string(imp.ID), "rows", len(subs))
	return imp.Summary(), nil
}

func (s *Service) read(m *recordmap.Mapper, in ImportInput) ([]domain.Subscription, error) {
	if in.Body == nil {
		return nil, &Error{Status: 400, Code: "MALFORMED_FILE", Message: "missing file body"}
	}
	src, err := rowsource.Open(in.Format, in.Body)
	if err != nil {
		return nil, &Error{Status: 400, Code: "MALFORMED_FILE", Message: "cannot read export", Err: err}
	}
	subs, err := m.ReadAll(src)
	if err != nil {
		return nil, classify(err)
	}
	return subs, nil
}

func classify(err error) error {
	var (
		mfe *recordmap.MissingFieldError
		ve  *recordmap.ValidationError
	)
	switch {
	case errors.As(err, &mfe):
		return &Error{
			Status:  422,
			Code:    "MISSING_FIELD",
			Message: "a required column is missing",
			Details: map[string]any{"column": mfe.Column, "row": mfe.Row, "line": mfe.Line},
			Err:     err,
		}
	case errors.As(err, &ve):
		fields := make(map[string]any, len(ve.Errors))
		for _, fe := range ve.Errors {
			fields[string(fe.Field)] = fe.Error()
		}
		return &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid row",
			Details: map[string]any{"row": ve.Row, "line": ve.Line, "fields": fields},
			Err:     err,
		}
	default:
		return &Error{Status: 400, Code: "MALFORMED_FILE", Message: "cannot read export", Err: err}
	}
}

func (s *Service) GetImport(ctx context.Context, id domain.ImportID) (domain.ImportSummary, error) {
	imp, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.ImportSummary{}, notFound(err, id)
	}
	return imp.Summary(), nil
}

func (s *Service) ListImports(ctx context.Context) ([]domain.ImportSummary, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListSubscriptions(ctx context.Context, id domain.ImportID) ([]domain.Subscription, error) {
	subs, err := s.repo.ListSubscriptions(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return subs, nil
}

func notFound(err error, id domain.ImportID) error {
	if errors.Is(err, importrepo.ErrNotFound) {
		return &Error{
			Status:  404,
			Code:    "IMPORT_NOT_FOUND",
			Message: "No import exists with the given id.",
			Details: map[string]any{"importId": string(id)},
			Err:     err,
		}
	}
	return err
}
