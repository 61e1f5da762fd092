// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements server-side session state for visitors.

A session is a record in a [Store] keyed by a random id. The id travels in
the signed "sessionId" cookie. The record carries the login snapshot shown in
page chrome and the single-read flash channel.

# Relationship with the bearer token

The session is a display cache. Role decisions are made on the verified
bearer token only. [Manager.Login] writes both cookies and [Manager.Logout]
clears both, so the pair is created and destroyed together.
*/
package session

import (
	"time"

	"github.com/taibuivan/csemotors/internal/platform/sec"
)

// Snapshot is the copy of an account taken at login. It is not kept in sync
// with later account changes except through [Manager.Refresh].
type Snapshot struct {
	AccountID int      `json:"account_id"`
	FirstName string   `json:"account_firstname"`
	LastName  string   `json:"account_lastname"`
	Email     string   `json:"account_email"`
	Role      sec.Role `json:"account_type"`
}

// Data is the stored session record.
type Data struct {
	Authenticated bool                `json:"loggedin"`
	Account       *Snapshot           `json:"account,omitempty"`
	Flash         map[string][]string `json:"flash,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// View is the read-only session view model handed to templates.
type View struct {
	ID            int
	FirstName     string
	LastName      string
	Email         string
	Role          sec.Role
	Authenticated bool
}

// view projects the record into a [View].
func (data *Data) view() View {
	if data == nil || !data.Authenticated || data.Account == nil {
		return View{}
	}
	return View{
		ID:            data.Account.AccountID,
		FirstName:     data.Account.FirstName,
		LastName:      data.Account.LastName,
		Email:         data.Account.Email,
		Role:          data.Account.Role,
		Authenticated: true,
	}
}

// CanManageInventory reports whether the snapshot role may see inventory links.
// It only drives navigation; the inventory gate re-checks the token.
func (view View) CanManageInventory() bool {
	return view.Authenticated && view.Role.In(sec.RoleEmployee, sec.RoleAdmin)
}
