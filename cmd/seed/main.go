// Copyright 2026 The ClarityRCM Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command seed installs the default permission catalog and system roles.
// Seeding is idempotent: existing permissions and roles are left untouched,
// and role-permission edges are re-asserted harmlessly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/clarityrcm/clarityrcm/internal/authz"
	"github.com/clarityrcm/clarityrcm/internal/config"
	"github.com/clarityrcm/clarityrcm/internal/observability/logger"
	"github.com/clarityrcm/clarityrcm/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	if err := seed(ctx, db); err != nil {
		slog.Error("seed failed", logger.Error(err))
		os.Exit(1)
	}

	slog.Info("seed complete")
}

func seed(ctx context.Context, db *postgres.DB) error {
	permissionRepo := postgres.NewPermissionRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	grantRepo := postgres.NewGrantRepository(db)

	// permission name -> id, for wiring role edges below
	permissionIDs := make(map[string]string, len(authz.DefaultPermissions))

	var created int
	for _, dp := range authz.DefaultPermissions {
		existing, err := permissionRepo.GetByName(ctx, dp.Name)
		if err == nil {
			permissionIDs[dp.Name] = existing.ID
			continue
		}
		if err != authz.ErrPermissionNotFound {
			return fmt.Errorf("failed to check permission %s: %w", dp.Name, err)
		}

		now := time.Now()
		permission := &authz.Permission{
			ID:          ulid.Make().String(),
			Name:        dp.Name,
			Resource:    dp.Resource,
			Action:      dp.Action,
			Description: dp.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := permissionRepo.Create(ctx, permission); err != nil {
			return fmt.Errorf("failed to create permission %s: %w", dp.Name, err)
		}
		permissionIDs[dp.Name] = permission.ID
		created++
	}
	slog.Info("seeded permissions",
		slog.Int("created", created),
		slog.Int("total", len(authz.DefaultPermissions)),
	)

	for _, dr := range authz.DefaultRoles {
		role, err := roleRepo.GetByName(ctx, dr.Name)
		if err == authz.ErrRoleNotFound {
			now := time.Now()
			role = &authz.Role{
				ID:          ulid.Make().String(),
				Name:        dr.Name,
				Description: dr.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := roleRepo.Create(ctx, role); err != nil {
				return fmt.Errorf("failed to create role %s: %w", dr.Name, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to check role %s: %w", dr.Name, err)
		}

		names := dr.Permissions
		if names == nil {
			// nil means the full catalog
			names = make([]string, 0, len(authz.DefaultPermissions))
			for _, dp := range authz.DefaultPermissions {
				names = append(names, dp.Name)
			}
		}

		for _, name := range names {
			permissionID, ok := permissionIDs[name]
			if !ok {
				return fmt.Errorf("role %s references unknown permission %s", dr.Name, name)
			}
			if err := grantRepo.AssignPermissionToRole(ctx, role.ID, permissionID); err != nil {
				return fmt.Errorf("failed to attach %s to role %s: %w", name, dr.Name, err)
			}
		}

		slog.Info("seeded role",
			slog.String("role", dr.Name),
			slog.Int("permissions", len(names)),
		)
	}

	return nil
}
