// SPDX-License-Identifier: Apache-2.0
package constants

type AuthContext string

const (
	SessionCookieName             = "_donnajuce"
	SessionCustomerKey            = "customer"
	ContextCustomer   AuthContext = "_customer"
)
