package importrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/club-subscriptions/internal/adapters/postgres"
	"github.com/Overland-East-Bay/club-subscriptions/internal/domain"
	"github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/importrepo"
)

var subscriptionColumns = []string{
	"import_id",
	"row_number",
	"membership_number",
	"first_name",
	"last_name",
	"email",
	"telephone",
	"date_of_birth",
	"emergency_contact_name",
	"emergency_contact_number",
	"primary_club",
	"club_membership_expiry",
	"membership_type",
	"membership_status",
	"membership_expiry",
}

// Repo is a Postgres implementation of importrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Save(ctx context.Context, imp domain.Import) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(imp.ID))
	if err != nil {
		return fmt.Errorf("invalid import id: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var pk int64
		err := tx.QueryRow(ctx, `
			INSERT INTO imports (
				external_id,
				source,
				schema_name,
				row_count,
				created_at
			) VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
			id,
			imp.Source,
			imp.Schema,
			len(imp.Subscriptions),
			imp.CreatedAt.UTC(),
		).Scan(&pk)
		if err != nil {
			if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
				return importrepo.ErrAlreadyExists
			}
			return err
		}
		if len(imp.Subscriptions) == 0 {
			return nil
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"import_subscriptions"},
			subscriptionColumns,
			pgx.CopyFromSlice(len(imp.Subscriptions), func(i int) ([]any, error) {
				s := imp.Subscriptions[i]
				return []any{
					pk,
					i + 1,
					int64(s.MembershipNumber),
					s.FirstName,
					s.LastName,
					s.Email,
					s.Telephone,
					utcPtr(s.DateOfBirth),
					s.EmergencyContactName.Ptr(),
					s.EmergencyContactNumber.Ptr(),
					s.PrimaryClub.Ptr(),
					utcPtr(s.ClubMembershipExpiry),
					s.MembershipType.Ptr(),
					s.MembershipStatus.Ptr(),
					utcPtr(s.MembershipExpiry),
				}, nil
			}),
		)
		return err
	})
}

func (r *Repo) Get(ctx context.Context, id domain.ImportID) (domain.Import, error) {
	if r.pool == nil {
		return domain.Import{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Import{}, importrepo.ErrNotFound
	}

	var out domain.Import
	err = pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		summary, pk, err := getImport(ctx, tx, uid)
		if err != nil {
			return err
		}
		subs, err := listSubscriptions(ctx, tx, pk)
		if err != nil {
			return err
		}
		out = domain.Import{
			ID:            summary.ID,
			Source:        summary.Source,
			Schema:        summary.Schema,
			CreatedAt:     summary.CreatedAt,
			Subscriptions: subs,
		}
		return nil
	})
	if err != nil {
		return domain.Import{}, err
	}
	return out, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.ImportSummary, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT
			external_id,
			source,
			schema_name,
			row_count,
			created_at
		FROM imports
		ORDER BY created_at DESC, external_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ImportSummary, 0)
	for rows.Next() {
		s, _, err := scanSummary(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListSubscriptions(ctx context.Context, id domain.ImportID) ([]domain.Subscription, error) {
	imp, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return imp.Subscriptions, nil
}

// --- helpers ---

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getImport(ctx context.Context, q querier, id uuid.UUID) (domain.ImportSummary, int64, error) {
	row := q.QueryRow(ctx, `
		SELECT
			external_id,
			source,
			schema_name,
			row_count,
			created_at,
			id
		FROM imports
		WHERE external_id = $1
	`, id)
	return scanSummary(row, true)
}

func scanSummary(row interface {
	Scan(dest ...any) error
}, withPK bool) (domain.ImportSummary, int64, error) {
	var (
		externalID uuid.UUID
		source     string
		schemaName string
		rowCount   int
		createdAt  time.Time
		pk         int64
	)
	dest := []any{&externalID, &source, &schemaName, &rowCount, &createdAt}
	if withPK {
		dest = append(dest, &pk)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ImportSummary{}, 0, importrepo.ErrNotFound
		}
		return domain.ImportSummary{}, 0, err
	}
	return domain.ImportSummary{
		ID:        domain.ImportID(externalID.String()),
		Source:    source,
		Schema:    schemaName,
		RowCount:  rowCount,
		CreatedAt: createdAt.UTC(),
	}, pk, nil
}

func listSubscriptions(ctx context.Context, q querier, importPK int64) ([]domain.Subscription, error) {
	rows, err := q.Query(ctx, `
		SELECT
			membership_number,
			first_name,
			last_name,
			email,
			telephone,
			date_of_birth,
			emergency_contact_name,
			emergency_contact_number,
			primary_club,
			club_membership_expiry,
			membership_type,
			membership_status,
			membership_expiry
		FROM import_subscriptions
		WHERE import_id = $1
		ORDER BY row_number ASC
	`, importPK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Subscription, 0)
	for rows.Next() {
		var (
			s                      domain.Subscription
			membershipNumber       int64
			dateOfBirth            *time.Time
			emergencyContactName   *string
			emergencyContactNumber *string
			primaryClub            *string
			clubMembershipExpiry   *time.Time
			membershipType         *string
			membershipStatus       *string
			membershipExpiry       *time.Time
		)
		if err := rows.Scan(
			&membershipNumber,
			&s.FirstName,
			&s.LastName,
			&s.Email,
			&s.Telephone,
			&dateOfBirth,
			&emergencyContactName,
			&emergencyContactNumber,
			&primaryClub,
			&clubMembershipExpiry,
			&membershipType,
			&membershipStatus,
			&membershipExpiry,
		); err != nil {
			return nil, err
		}
		s.MembershipNumber = domain.MembershipNumber(membershipNumber)
		s.DateOfBirth = utcOptional(dateOfBirth)
		s.EmergencyContactName = domain.FromPtr(emergencyContactName)
		s.EmergencyContactNumber = domain.FromPtr(emergencyContactNumber)
		s.PrimaryClub = domain.FromPtr(primaryClub)
		s.ClubMembershipExpiry = utcOptional(clubMembershipExpiry)
		s.MembershipType = domain.FromPtr(membershipType)
		s.MembershipStatus = domain.FromPtr(membershipStatus)
		s.MembershipExpiry = utcOptional(membershipExpiry)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func utcPtr(o domain.Optional[time.Time]) *time.Time {
	t, ok := o.Get()
	if !ok {
		return nil
	}
	t = t.UTC()
	return &t
}

func utcOptional(p *time.Time) domain.Optional[time.Time] {
	if p == nil {
		return domain.None[time.Time]()
	}
	return domain.Some(p.UTC())
}
