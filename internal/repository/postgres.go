package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallbiznis/orgspace-auth/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository = (*PostgresUserRepo)(nil)
	_ OrgRepository  = (*PostgresOrgRepo)(nil)
)

const uniqueViolation = "23505"

// PostgresUserRepo implements UserRepository on pgx.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

const selectUserSQL = `SELECT user_id, first_name, last_name, email, password_hash, phone, created_at FROM users`

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx, selectUserSQL+` WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, userID string) (domain.User, error) {
	row := r.db.QueryRow(ctx, selectUserSQL+` WHERE user_id = $1`, userID)
	return scanUser(row)
}

const insertUserSQL = `INSERT INTO users (user_id, first_name, last_name, email, password_hash, phone, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const insertOrgSQL = `INSERT INTO organisations (org_id, name, description, creator_id, created_at)
VALUES ($1, $2, $3, $4, $5)`

const insertMemberSQL = `INSERT INTO organisation_members (org_id, user_id)
VALUES ($1, $2) ON CONFLICT DO NOTHING`

// CreateWithDefaultOrg runs the registration writes as one transaction so a
// user never exists without their default organisation.
func (r *PostgresUserRepo) CreateWithDefaultOrg(ctx context.Context, user domain.User, org domain.Organisation) (domain.User, domain.Organisation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.User{}, domain.Organisation{}, fmt.Errorf("begin register tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertUserSQL,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Phone, user.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.Organisation{}, ErrEmailTaken
		}
		return domain.User{}, domain.Organisation{}, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.Exec(ctx, insertOrgSQL,
		org.ID, org.Name, org.Description, org.CreatorID, org.CreatedAt,
	); err != nil {
		return domain.User{}, domain.Organisation{}, fmt.Errorf("insert default org: %w", err)
	}

	if _, err := tx.Exec(ctx, insertMemberSQL, org.ID, user.ID); err != nil {
		return domain.User{}, domain.Organisation{}, fmt.Errorf("insert creator membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, domain.Organisation{}, fmt.Errorf("commit register tx: %w", err)
	}

	org.MemberIDs = []string{user.ID}
	return user, org, nil
}

// PostgresOrgRepo implements OrgRepository on pgx.
type PostgresOrgRepo struct {
	db *pgxpool.Pool
}

func NewPostgresOrgRepo(pool *pgxpool.Pool) *PostgresOrgRepo {
	return &PostgresOrgRepo{db: pool}
}

const selectOrgSQL = `SELECT org_id, name, description, creator_id, created_at FROM organisations`

func (r *PostgresOrgRepo) GetByID(ctx context.Context, orgID string) (domain.Organisation, error) {
	row := r.db.QueryRow(ctx, selectOrgSQL+` WHERE org_id = $1`, orgID)
	org, err := scanOrg(row)
	if err != nil {
		return domain.Organisation{}, err
	}

	members, err := r.memberIDs(ctx, orgID)
	if err != nil {
		return domain.Organisation{}, err
	}
	org.MemberIDs = members
	return org, nil
}

func (r *PostgresOrgRepo) CreateWithCreator(ctx context.Context, org domain.Organisation) (domain.Organisation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Organisation{}, fmt.Errorf("begin create org tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertOrgSQL,
		org.ID, org.Name, org.Description, org.CreatorID, org.CreatedAt,
	); err != nil {
		return domain.Organisation{}, fmt.Errorf("insert org: %w", err)
	}

	if _, err := tx.Exec(ctx, insertMemberSQL, org.ID, org.CreatorID); err != nil {
		return domain.Organisation{}, fmt.Errorf("insert creator membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Organisation{}, fmt.Errorf("commit create org tx: %w", err)
	}

	org.MemberIDs = []string{org.CreatorID}
	return org, nil
}

func (r *PostgresOrgRepo) AddMember(ctx context.Context, orgID, userID string) error {
	if _, err := r.db.Exec(ctx, insertMemberSQL, orgID, userID); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

const listOrgsForUserSQL = selectOrgSQL + `
WHERE creator_id = $1
   OR org_id IN (SELECT org_id FROM organisation_members WHERE user_id = $1)
ORDER BY created_at`

func (r *PostgresOrgRepo) ListForUser(ctx context.Context, userID string) ([]domain.Organisation, error) {
	rows, err := r.db.Query(ctx, listOrgsForUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list orgs: %w", err)
	}
	defer rows.Close()

	var orgs []domain.Organisation
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orgs rows: %w", err)
	}
	return orgs, nil
}

func (r *PostgresOrgRepo) memberIDs(ctx context.Context, orgID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM organisation_members WHERE org_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members rows: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Phone, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func scanOrg(row rowScanner) (domain.Organisation, error) {
	var o domain.Organisation
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.CreatorID, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Organisation{}, ErrNotFound
	}
	if err != nil {
		return domain.Organisation{}, fmt.Errorf("scan org: %w", err)
	}
	return o, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
