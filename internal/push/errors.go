// SPDX-License-Identifier: Apache-2.0
package push

import (
	"fmt"
	"net/http"
)

type ErrorMissingTarget struct{}

func (err *ErrorMissingTarget) Error() string {
	return "customer_id or to_admins is required"
}

func (err *ErrorMissingTarget) Code() int {
	return http.StatusBadRequest
}

type ErrorMissingKeys struct{}

func (err *ErrorMissingKeys) Error() string {
	return "missing WEB_PUSH_PUBLIC_KEY or WEB_PUSH_PRIVATE_KEY"
}

func (err *ErrorMissingKeys) Code() int {
	return http.StatusInternalServerError
}

type ErrorStore struct {
	during string
	err    error
}

func (err *ErrorStore) Error() string {
	return fmt.Sprintf("could not %s: %s", err.during, err.err)
}

func (err *ErrorStore) Code() int {
	return http.StatusInternalServerError
}
