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

package entity

import (
	"time"

	"github.com/Netcracker/qubership-code-review-service/view"
)

type User struct {
	tableName struct{} `pg:"app_user"`

	Id          string    `pg:"id,pk,type:varchar"`
	GithubId    string    `pg:"github_id,type:varchar,notnull,unique"`
	Username    string    `pg:"username,type:varchar,notnull"`
	Email       string    `pg:"email,type:varchar"`
	Avatar      string    `pg:"avatar,type:varchar"`
	AccessToken string    `pg:"access_token,type:varchar"`
	CreatedAt   time.Time `pg:"created_at,type:timestamp without time zone,notnull"`
	UpdatedAt   time.Time `pg:"updated_at,type:timestamp without time zone,notnull"`
}

func MakeUserView(ent User) view.User {
	return view.User{
		Id:        ent.Id,
		GithubId:  ent.GithubId,
		Username:  ent.Username,
		Email:     ent.Email,
		Avatar:    ent.Avatar,
		CreatedAt: ent.CreatedAt,
		UpdatedAt: ent.UpdatedAt,
	}
}
