// Copyright 2024-2025 NetCracker Technology Corporation
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

package db

import (
	"context"
	"fmt"

	"github.com/Netcracker/qubership-code-review-service/entity"
	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
	log "github.com/sirupsen/logrus"
)

var indexes = []string{
	"create unique index if not exists app_user_github_id_uindex on app_user (github_id)",
	"create index if not exists code_review_user_created_index on code_review (user_id, created_at desc)",
}

// Migrate creates the tables and indexes if they do not exist yet. Safe to run repeatedly.
func Migrate(ctx context.Context, cp ConnectionProvider) error {
	return cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		models := []interface{}{
			(*entity.User)(nil),
			(*entity.Review)(nil),
		}
		for _, model := range models {
			err := tx.Model(model).CreateTable(&orm.CreateTableOptions{IfNotExists: true})
			if err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}
		for _, stmt := range indexes {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to create index: %w", err)
			}
		}
		log.Debugf("Database schema is up to date")
		return nil
	})
}
