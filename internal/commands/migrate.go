package commands

import (
	"fmt"
	"log"

	"github.com/pkg/errors"

	"taskact/backend/internal/pkg/repository/postgresql"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{

	{
		Index:       1,
		Description: "CREATE TYPE \"user_role\" AS ENUM",
		Query: `
        CREATE TYPE "user_role" AS ENUM ('EMPLOYEE', 'PARTNER', 'SUPERADMIN', 'KIOSK');`,
	},
	{
		Index:       2,
		Description: "Create table: tenants.",
		Query: `
        CREATE TABLE IF NOT EXISTS tenants (
            id serial primary key,
            name text not null,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       3,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            tenant_id int not null references tenants(id),
            email text not null,
            password text not null,
            role user_role,
            full_name text,
            badge_code text,
            phone varchar(255),
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       4,
		Description: "Unique live email per tenant and unique badge code.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS users_tenant_email_live
            ON users (tenant_id, email) WHERE deleted_at IS NULL;
        CREATE UNIQUE INDEX IF NOT EXISTS users_badge_code_live
            ON users (badge_code) WHERE deleted_at IS NULL AND badge_code IS NOT NULL;`,
	},
	{
		Index:       5,
		Description: "Create tenant: Taskact Demo",
		Query: `
        INSERT INTO tenants(id, name)
        SELECT 1, 'Taskact Demo'
        WHERE NOT EXISTS (SELECT id FROM tenants WHERE id = 1);
        `,
	},
	{
		Index:       6,
		Description: "Create user with email: superadmin@taskact.io, password: 1",
		Query: `
        INSERT INTO users(tenant_id, email, role, password, full_name)
        SELECT 1, 'superadmin@taskact.io', 'SUPERADMIN', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2', 'Super Admin'
        WHERE NOT EXISTS (SELECT email FROM users WHERE email = 'superadmin@taskact.io');
        `,
	},
	{
		Index:       7,
		Description: "Create user with email: partner@taskact.io, password: 1",
		Query: `
        INSERT INTO users(tenant_id, email, role, password, full_name, badge_code)
        SELECT 1, 'partner@taskact.io', 'PARTNER', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2', 'Managing Partner', 'TA-0001-A11F'
        WHERE NOT EXISTS (SELECT email FROM users WHERE email = 'partner@taskact.io');
        `,
	},
	{
		Index:       8,
		Description: "Create user with email: employee@taskact.io, password: 1",
		Query: `
        INSERT INTO users(tenant_id, email, role, password, full_name, badge_code)
        SELECT 1, 'employee@taskact.io', 'EMPLOYEE', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2', 'First Employee', 'TA-0002-B22E'
        WHERE NOT EXISTS (SELECT email FROM users WHERE email = 'employee@taskact.io');
        `,
	},
	{
		Index:       9,
		Description: "Create user with email: kiosk@taskact.io, password: 1",
		Query: `
        INSERT INTO users(tenant_id, email, role, password, full_name)
        SELECT 1, 'kiosk@taskact.io', 'KIOSK', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2', 'Office Kiosk'
        WHERE NOT EXISTS (SELECT email FROM users WHERE email = 'kiosk@taskact.io');
        `,
	},
	{
		Index:       10,
		Description: "Create table: attendance_settings.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance_settings (
            id serial primary key,
            tenant_id int not null references tenants(id),
            geofence_enabled boolean default false,
            radius_meters float default 0,
            full_day_hours float default 8,
            working_days jsonb default '[true,true,true,true,true,true,false]',
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );
        CREATE UNIQUE INDEX IF NOT EXISTS attendance_settings_tenant_live
            ON attendance_settings (tenant_id) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       11,
		Description: "Create table: office_locations.",
		Query: `
        CREATE TABLE IF NOT EXISTS office_locations (
            id serial primary key,
            tenant_id int not null references tenants(id),
            name text not null,
            latitude float not null,
            longitude float not null,
            address text,
            position int default 0,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       12,
		Description: "Create table: holidays.",
		Query: `
        CREATE TABLE IF NOT EXISTS holidays (
            id serial primary key,
            tenant_id int not null references tenants(id),
            day date not null,
            name text not null,
            is_paid boolean default true,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );
        CREATE UNIQUE INDEX IF NOT EXISTS holidays_tenant_day_live
            ON holidays (tenant_id, day) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       13,
		Description: "Create table: attendance_records.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance_records (
            id serial primary key,
            tenant_id int not null references tenants(id),
            user_id int not null references users(id),
            type varchar(20) not null,
            work_day date not null,
            recorded_at timestamp not null,
            latitude float,
            longitude float,
            address text,
            device_info text,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       14,
		Description: "One clock-in and one clock-out per user per day.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS attendance_records_user_day_type_live
            ON attendance_records (user_id, work_day, type) WHERE deleted_at IS NULL;
        CREATE INDEX IF NOT EXISTS attendance_records_tenant_day
            ON attendance_records (tenant_id, work_day) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       15,
		Description: "Insert default settings for tenant 1.",
		Query: `
        INSERT INTO attendance_settings (tenant_id, geofence_enabled, radius_meters, full_day_hours, working_days, created_by)
        SELECT 1, false, 0, 8, '[true,true,true,true,true,true,false]', 1
        WHERE NOT EXISTS (SELECT tenant_id FROM attendance_settings WHERE tenant_id = 1 AND deleted_at IS NULL);
        `,
	},
}

// Migrate creates the scheme in the database.
func Migrate(db *postgresql.Database) {
	for _, s := range scheme {
		if _, err := db.Query(s.Query); err != nil {
			log.Fatalln("migrate error", err)
		}
	}
}

func MigrateUP(db *postgresql.Database) {
	var (
		version int
		dirty   bool
		er      *string
	)
	err := db.QueryRow("SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	if err != nil {
		if err.Error() == `ERROR: relation "schema_migrations" does not exist (SQLSTATE=42P01)` {
			if _, err = db.Exec(`
				CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text);
				DELETE FROM schema_migrations;
				INSERT INTO schema_migrations (version, dirty) values (0, false);
			`); err != nil {
				log.Fatalln("migrate schema_migrations create error", err)
			}
			version = 0
			dirty = false
		} else {
			log.Fatalln("migrate schema_migrations scan: ", err)
		}
	}

	if dirty {
		for _, v := range scheme {
			if v.Index == version {
				if _, err = db.Exec(v.Query); err != nil {
					if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s'`, err.Error())); err != nil {
						log.Fatalln("migrate error", err)
					}
					log.Fatalln(fmt.Sprintf("migrate error version: %d", version), err)
				}
				if _, err = db.Exec(`UPDATE schema_migrations SET dirty = false, error = null`); err != nil {
					log.Fatalln("migrate error", err)
				}
			}
		}
	}

	for _, s := range scheme {
		if s.Index > version {
			if _, err = db.Exec(s.Query); err != nil {
				if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s', version = %d, dirty = true`, err.Error(), s.Index)); err != nil {
					log.Fatalln("migrate error", err)
				}
				log.Fatalln(fmt.Sprintf("migrate error version: %d", s.Index), err)
			}
			if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET version = %d`, s.Index)); err != nil {
				log.Fatalln("migrate error", err)
			}
		}
	}
}
