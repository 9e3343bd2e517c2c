// Command seed provisions development franchises and one user per role.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/rentiva/rentiva/internal/app"
	"github.com/rentiva/rentiva/internal/rbac"
)

type seedUser struct {
	email       string
	name        string
	role        rbac.Role
	franchise   string
	permissions *string // raw JSON; nil = no explicit record, role defaults apply
}

func main() {
	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	franchises := map[string]string{
		"Rentiva Jakarta":  "jakarta",
		"Rentiva Surabaya": "surabaya",
	}
	franchiseIDs := make(map[string]string)
	for name, city := range franchises {
		var id string
		err := pool.QueryRow(ctx,
			`INSERT INTO franchises (name, city, is_active) VALUES ($1, $2, TRUE)
			 ON CONFLICT (name) DO UPDATE SET city = EXCLUDED.city
			 RETURNING id`, name, city).Scan(&id)
		if err != nil {
			logger.Error("seed franchise", slog.String("name", name), slog.Any("error", err))
			os.Exit(1)
		}
		franchiseIDs[name] = id
		logger.Info("franchise ready", slog.String("name", name), slog.String("id", id))
	}

	emptyPerms := "{}"
	users := []seedUser{
		{email: "root@rentiva.local", name: "Platform Root", role: rbac.RoleSuperAdmin},
		{email: "admin.jakarta@rentiva.local", name: "Jakarta Admin", role: rbac.RoleFranchiseAdmin, franchise: "Rentiva Jakarta"},
		{email: "staff.jakarta@rentiva.local", name: "Jakarta Staff", role: rbac.RoleStaff, franchise: "Rentiva Jakarta"},
		{email: "viewer.surabaya@rentiva.local", name: "Surabaya Viewer", role: rbac.RoleReadonly, franchise: "Rentiva Surabaya"},
		// Explicitly revoked account, useful for permission-map testing.
		{email: "revoked.jakarta@rentiva.local", name: "Jakarta Revoked", role: rbac.RoleStaff, franchise: "Rentiva Jakarta", permissions: &emptyPerms},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("rentiva-dev-password"), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", slog.Any("error", err))
		os.Exit(1)
	}

	for _, u := range users {
		var franchiseID *string
		if u.franchise != "" {
			id := franchiseIDs[u.franchise]
			franchiseID = &id
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO users (email, name, password_hash, role, franchise_id, is_active, permissions)
			 VALUES ($1, $2, $3, $4, $5, TRUE, $6)
			 ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, franchise_id = EXCLUDED.franchise_id, permissions = EXCLUDED.permissions`,
			u.email, u.name, string(hash), u.role.String(), franchiseID, u.permissions)
		if err != nil {
			logger.Error("seed user", slog.String("email", u.email), slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("user ready", slog.String("email", u.email), slog.String("role", u.role.String()))
	}

	fmt.Println("seed complete")
}
