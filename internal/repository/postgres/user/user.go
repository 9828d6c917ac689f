package user

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/auth"
	"taskact/backend/internal/entity"
	"taskact/backend/internal/pkg/repository/postgresql"
	"taskact/backend/internal/repository/postgres"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// GetByEmail looks a user up for sign-in, before any claims exist.
func (r Repository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("email = ? AND deleted_at IS NULL", email).Scan(ctx)
	if err != nil {
		return entity.User{}, &web.Error{
			Err:    errors.New("email or password incorrect"),
			Status: http.StatusUnauthorized,
		}
	}

	return detail, nil
}

// GetList returns the tenant's team ordered by name. Kiosk accounts are
// devices, not people, and stay out of the list.
func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := fmt.Sprintf(`
			WHERE
				deleted_at IS NULL AND tenant_id = %d AND role != '%s'
			`, claims.TenantId, auth.RoleKiosk)

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND
			(email ilike '%s' OR full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	orderQuery := "ORDER BY full_name"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery += fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}

	if filter.Offset != nil {
		offsetQuery += fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			email,
			full_name,
			role,
			phone,
			badge_code
		FROM users

		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting users"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Email,
			&detail.FullName,
			&detail.Role,
			&detail.Phone,
			&detail.BadgeCode); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user list"), http.StatusInternalServerError)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(id)
		FROM users
			%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			email,
			full_name,
			role,
			phone,
			badge_code
		FROM users
		WHERE deleted_at IS NULL AND tenant_id = %d AND id = %d
	`, claims.TenantId, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.Email,
		&detail.FullName,
		&detail.Role,
		&detail.Phone,
		&detail.BadgeCode,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting user detail"), http.StatusInternalServerError)
	}

	return detail, nil
}

// Create adds a team member to the caller's tenant and issues the badge
// code the kiosk scans.
func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Email", "Password", "Role", "FullName"); err != nil {
		return CreateResponse{}, err
	}

	emailUsed := true
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT
						CASE WHEN
						(SELECT id FROM users WHERE email = '%s' AND deleted_at IS NULL) IS NOT NULL
						THEN true ELSE false END`, strings.Replace(*request.Email, "'", "''", -1))).Scan(&emailUsed); err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "email check"), http.StatusInternalServerError)
	}
	if emailUsed {
		return CreateResponse{}, web.NewRequestError(errors.New("email is used"), http.StatusBadRequest)
	}

	role := strings.ToUpper(*request.Role)
	if role != auth.RoleEmployee && role != auth.RolePartner && role != auth.RoleKiosk {
		return CreateResponse{}, web.NewRequestError(errors.New("incorrect role. role should be EMPLOYEE, PARTNER or KIOSK"), http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}
	hashedPassword := string(hash)

	badgeCode := fmt.Sprintf("TA-%04d-%04X", rand.Intn(10000), rand.Intn(65536))

	var response CreateResponse

	response.TenantID = claims.TenantId
	response.Email = request.Email
	response.Password = &hashedPassword
	response.Role = &role
	response.FullName = request.FullName
	response.Phone = request.Phone
	response.BadgeCode = &badgeCode
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating user"), http.StatusBadRequest)
	}

	response.Password = nil

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("users").Where("deleted_at IS NULL AND id = ? AND tenant_id = ?", request.ID, claims.TenantId)

	if request.Email != nil {
		emailUsed := true
		if err := r.QueryRowContext(ctx, fmt.Sprintf("SELECT CASE WHEN (SELECT id FROM users WHERE email = '%s' AND deleted_at IS NULL AND id != %d) IS NOT NULL THEN true ELSE false END", strings.Replace(*request.Email, "'", "''", -1), request.ID)).Scan(&emailUsed); err != nil {
			return web.NewRequestError(errors.Wrap(err, "email check"), http.StatusInternalServerError)
		}
		if emailUsed {
			return web.NewRequestError(errors.New("email is used"), http.StatusBadRequest)
		}
		q.Set("email = ?", request.Email)
	}

	if request.Role != nil {
		role := strings.ToUpper(*request.Role)
		if role != auth.RoleEmployee && role != auth.RolePartner && role != auth.RoleKiosk {
			return web.NewRequestError(errors.New("incorrect role. role should be EMPLOYEE, PARTNER or KIOSK"), http.StatusBadRequest)
		}
		q.Set("role = ?", role)
	}

	if request.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
		}
		q.Set("password = ?", string(hash))
	}

	if request.FullName != nil {
		q.Set("full_name = ?", request.FullName)
	}
	if request.Phone != nil {
		q.Set("phone = ?", request.Phone)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating user"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "users", id)
}

// GetBadgeById returns one user's badge for rendering its QR code.
func (r Repository) GetBadgeById(ctx context.Context, id int) (BadgeResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return BadgeResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			full_name,
			badge_code
		FROM users
		WHERE deleted_at IS NULL AND tenant_id = %d AND id = %d
	`, claims.TenantId, id)

	var detail BadgeResponse
	err = r.QueryRowContext(ctx, query).Scan(&detail.ID, &detail.FullName, &detail.BadgeCode)
	if errors.Is(err, sql.ErrNoRows) {
		return BadgeResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return BadgeResponse{}, web.NewRequestError(errors.Wrap(err, "selecting user badge"), http.StatusInternalServerError)
	}

	if detail.BadgeCode == nil {
		return BadgeResponse{}, web.NewRequestError(errors.New("user has no badge"), http.StatusNotFound)
	}

	return detail, nil
}

// GetBadgeList returns every badge of the tenant for the printable
// sheet.
func (r Repository) GetBadgeList(ctx context.Context) ([]BadgeResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			full_name,
			badge_code
		FROM users
		WHERE deleted_at IS NULL AND tenant_id = %d AND role != '%s' AND badge_code IS NOT NULL
		ORDER BY full_name
	`, claims.TenantId, auth.RoleKiosk)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting user badges"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []BadgeResponse

	for rows.Next() {
		var detail BadgeResponse
		if err = rows.Scan(&detail.ID, &detail.FullName, &detail.BadgeCode); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning user badges"), http.StatusInternalServerError)
		}
		list = append(list, detail)
	}

	return list, nil
}
