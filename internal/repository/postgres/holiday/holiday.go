package holiday

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/uptrace/bun/driver/pgdriver"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/auth"
	"taskact/backend/internal/pkg/repository/postgresql"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// GetList returns the tenant holidays of one calendar year ordered by
// day.
func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	year := time.Now().Year()
	if filter.Year != nil {
		year = *filter.Year
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			day,
			name,
			is_paid
		FROM holidays
		WHERE deleted_at IS NULL AND tenant_id = %d AND day BETWEEN '%d-01-01' AND '%d-12-31'
		ORDER BY day
	`, claims.TenantId, year, year)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting holidays"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		var day time.Time

		if err = rows.Scan(&detail.ID, &day, &detail.Name, &detail.IsPaid); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning holiday list"), http.StatusInternalServerError)
		}

		detail.Day = &date.Date{Time: day}
		list = append(list, detail)
	}

	return list, len(list), nil
}

// Create registers a holiday. The unique index on (tenant_id, day)
// rejects a duplicate date.
func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Day", "Name"); err != nil {
		return CreateResponse{}, err
	}

	var response CreateResponse

	response.TenantID = claims.TenantId
	response.Day = request.Day.Format("2006-01-02")
	response.Name = request.Name

	// Holidays are paid unless the request says otherwise.
	response.IsPaid = true
	if request.IsPaid != nil {
		response.IsPaid = *request.IsPaid
	}
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return CreateResponse{}, web.NewRequestError(errors.New("holiday already exists for this day"), http.StatusConflict)
		}
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating holiday"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "holidays", id)
}
