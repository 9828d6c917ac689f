// Package postgresql owns the bun connection every repository embeds.
// The wrapper also carries the claim and validation helpers shared by
// all repositories so tenant checks stay in one place.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"taskact/backend/foundation/web"
	"taskact/backend/internal/auth"
)

type Database struct {
	*bun.DB
}

// NewDB opens the postgres connection pool. disableTLS is for local
// development against a plain docker postgres.
func NewDB(username, password, host, port, dbName string, disableTLS bool) *Database {
	connector := pgdriver.NewConnector(
		pgdriver.WithAddr(fmt.Sprintf("%s:%s", host, port)),
		pgdriver.WithUser(username),
		pgdriver.WithPassword(password),
		pgdriver.WithDatabase(dbName),
		pgdriver.WithInsecure(disableTLS),
		pgdriver.WithTimeout(10*time.Second),
	)

	sqlDB := sql.OpenDB(connector)

	db := bun.NewDB(sqlDB, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithEnabled(false), bundebug.FromEnv("BUNDEBUG")))

	return &Database{DB: db}
}

// CheckClaims reads the authenticated claims from ctx and checks the
// caller role against allowed. Every repository method calls this
// before touching tenant data.
func (d Database) CheckClaims(ctx context.Context, allowed ...string) (auth.Claims, error) {
	claims, err := auth.GetClaims(ctx)
	if err != nil {
		return auth.Claims{}, err
	}

	if !claims.Authorized(allowed...) {
		return auth.Claims{}, web.NewRequestError(errors.New("permission denied"), http.StatusForbidden)
	}

	return claims, nil
}

var validate = validator.New()

// ValidateStruct runs the validate tags on s and additionally requires
// the named fields to be present. Request structs use pointer fields, so
// present means a non-nil pointer.
func (d Database) ValidateStruct(s interface{}, requiredFields ...string) error {
	structVal := reflect.ValueOf(s)
	if structVal.Kind() == reflect.Ptr {
		structVal = structVal.Elem()
	}

	var missing []string
	for _, field := range requiredFields {
		fieldVal := structVal.FieldByName(field)
		if !fieldVal.IsValid() {
			continue
		}
		switch fieldVal.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map:
			if fieldVal.IsNil() {
				missing = append(missing, field)
			}
		default:
			if fieldVal.IsZero() {
				missing = append(missing, field)
			}
		}
	}
	if len(missing) > 0 {
		return web.NewRequestError(errors.Errorf("required fields are missing: %s", strings.Join(missing, ", ")), http.StatusBadRequest)
	}

	if err := validate.Struct(s); err != nil {
		return web.NewRequestError(errors.Wrap(err, "validating request"), http.StatusBadRequest)
	}

	return nil
}

// DeleteRow soft deletes one row by id inside the caller tenant.
func (d Database) DeleteRow(ctx context.Context, table string, id int) error {
	claims, err := d.CheckClaims(ctx, auth.RolePartner, auth.RoleSuperAdmin)
	if err != nil {
		return err
	}

	result, err := d.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s SET deleted_at = now(), deleted_by = %d
		WHERE id = %d AND tenant_id = %d AND deleted_at IS NULL
	`, table, claims.UserId, id, claims.TenantId))
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting %s row", table), http.StatusInternalServerError)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "reading affected rows"), http.StatusInternalServerError)
	}
	if affected == 0 {
		return web.NewRequestError(errors.Errorf("%s row not found", table), http.StatusNotFound)
	}

	return nil
}
