// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/csemotors/internal/platform/sec"
)

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		role   sec.Role
		target sec.Role
		want   bool
	}{
		{sec.RoleAdmin, sec.RoleEmployee, true},
		{sec.RoleEmployee, sec.RoleEmployee, true},
		{sec.RoleClient, sec.RoleEmployee, false},
		{sec.Role("Owner"), sec.RoleClient, false},
		{sec.Role(""), sec.Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.target))
		})
	}
}

func TestRole_In(t *testing.T) {
	assert.True(t, sec.RoleAdmin.In(sec.RoleEmployee, sec.RoleAdmin))
	assert.False(t, sec.RoleClient.In(sec.RoleEmployee, sec.RoleAdmin))
	assert.False(t, sec.RoleClient.In())
}
