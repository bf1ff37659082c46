// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package dao

import (
	"github.com/evcon/evcon/internal/central"
)

// CentralFactory implements the Factory interface using a central server connection.
type CentralFactory struct {
	client central.Connection
}

// NewFactory creates a new CentralFactory with the given client.
func NewFactory(client central.Connection) *CentralFactory {
	return &CentralFactory{client: client}
}

// Client returns the central server connection.
func (f *CentralFactory) Client() central.Connection {
	return f.client
}

// Tenant returns the tenant the connection belongs to.
func (f *CentralFactory) Tenant() string {
	if f.client == nil || f.client.Config() == nil {
		return ""
	}
	return f.client.Config().Tenant
}
